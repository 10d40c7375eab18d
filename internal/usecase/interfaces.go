package usecase

import (
	"context"
	"time"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/integration/pitch"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/queue"
)

type PitchClient interface {
	Dispatch(ctx context.Context, info pitch.LeadInfo) pitch.Result
}

// FileStore removes stored upload objects. Remove returns
// storage.ErrFileNotFound when the object is already gone.
type FileStore interface {
	Remove(ctx context.Context, path string) error
}

type EventPublisher interface {
	PublishLeadPitched(ctx context.Context, payload queue.LeadPitchedPayload) error
}

type IngestionMetrics interface {
	ObserveIngested(source entity.SourceType, inserted, skipped int)
	ObservePitch(result entity.PitchResult, elapsed time.Duration)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type noopMetrics struct{}

func (noopMetrics) ObserveIngested(entity.SourceType, int, int)    {}
func (noopMetrics) ObservePitch(entity.PitchResult, time.Duration) {}
