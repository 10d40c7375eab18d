package usecase

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

type Plan struct {
	ToInsert     []string
	AlreadyOwned []string
}

// DedupPlanner splits candidate keys into new and already owned ones. The
// answer can be stale by the time of the insert; the store index has the
// final word.
type DedupPlanner struct {
	Repo entity.LeadRepository
}

func NewDedupPlanner(repo entity.LeadRepository) *DedupPlanner {
	return &DedupPlanner{Repo: repo}
}

func (p *DedupPlanner) Plan(ctx context.Context, ownerID string, keys []string) (Plan, error) {
	plan := Plan{ToInsert: []string{}, AlreadyOwned: []string{}}
	if len(keys) == 0 {
		return plan, nil
	}

	existing, err := p.Repo.FindWebsitesByOwner(ctx, ownerID, keys)
	if err != nil {
		return plan, eris.Wrap(err, "dedup: lookup existing websites")
	}

	owned := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		owned[w] = struct{}{}
	}

	for _, k := range keys {
		if _, ok := owned[k]; ok {
			plan.AlreadyOwned = append(plan.AlreadyOwned, k)
		} else {
			plan.ToInsert = append(plan.ToInsert, k)
		}
	}
	return plan, nil
}
