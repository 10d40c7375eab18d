package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/integration/pitch"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/queue"
)

// PitchDispatcher sends newly imported leads to the pitch service and writes
// each outcome back onto the lead.
type PitchDispatcher struct {
	Client      PitchClient
	Repo        entity.LeadRepository
	Events      EventPublisher
	Metrics     IngestionMetrics
	Concurrency int
}

func NewPitchDispatcher(client PitchClient, repo entity.LeadRepository, events EventPublisher, metrics IngestionMetrics, concurrency int) *PitchDispatcher {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &PitchDispatcher{
		Client:      client,
		Repo:        repo,
		Events:      events,
		Metrics:     metrics,
		Concurrency: concurrency,
	}
}

// DispatchAll pitches every lead, at most Concurrency at a time. With the
// default limit of 1 the calls run one after another in slice order. The
// loop is detached from ctx cancellation so a client disconnect does not
// stop it; each call is bounded by the client's own timeout.
func (d *PitchDispatcher) DispatchAll(ctx context.Context, contact pitch.LeadInfo, leads []*entity.Lead) {
	if len(leads) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(d.Concurrency)

	for _, l := range leads {
		g.Go(func() error {
			d.dispatchOne(ctx, contact, l)
			return nil
		})
	}
	_ = g.Wait()
}

func (d *PitchDispatcher) dispatchOne(ctx context.Context, contact pitch.LeadInfo, l *entity.Lead) {
	info := contact
	info.Website = l.Website

	start := time.Now()
	res := d.Client.Dispatch(ctx, info)
	elapsed := time.Since(start)

	status := entity.StatusSuccess
	result := entity.PitchSuccess
	if !res.Success {
		status = entity.StatusFailed
		result = entity.PitchFailed
	}

	patch := entity.LeadPatch{Status: &status, PitchResult: &result}
	if res.Error != "" {
		msg := res.Error
		patch.PitchMessage = &msg
	}

	d.Metrics.ObservePitch(result, elapsed)

	updated, err := d.Repo.Update(ctx, l.OwnerID, entity.LeadSelector{ID: l.ID}, patch)
	if err != nil {
		zap.L().Error("pitch result not persisted",
			zap.String("lead_id", l.ID),
			zap.String("website", l.Website),
			zap.String("pitch_result", string(result)),
			zap.Error(err),
		)
		return
	}

	zap.L().Info("lead pitched",
		zap.String("lead_id", updated.ID),
		zap.String("website", updated.Website),
		zap.String("pitch_result", string(result)),
		zap.Duration("elapsed", elapsed),
	)

	if d.Events == nil {
		return
	}
	payload := queue.LeadPitchedPayload{
		LeadID:       updated.ID,
		OwnerID:      updated.OwnerID,
		Website:      updated.Website,
		PitchResult:  string(updated.PitchResult),
		PitchMessage: updated.PitchMessage,
		OccurredAt:   time.Now().UTC(),
	}
	if err := d.Events.PublishLeadPitched(ctx, payload); err != nil {
		zap.L().Warn("lead.pitched event not published", zap.String("lead_id", updated.ID), zap.Error(err))
	}
}
