package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/integration/pitch"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/queue"
)

// fakePitchClient answers from a per-website table and records call order
// and the highest number of overlapping calls.
type fakePitchClient struct {
	mu       sync.Mutex
	results  map[string]pitch.Result
	calls    []pitch.LeadInfo
	inFlight int
	maxSeen  int
	delay    time.Duration
}

func newFakePitchClient() *fakePitchClient {
	return &fakePitchClient{results: map[string]pitch.Result{}}
}

func (f *fakePitchClient) Dispatch(_ context.Context, info pitch.LeadInfo) pitch.Result {
	f.mu.Lock()
	f.calls = append(f.calls, info)
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	res, ok := f.results[info.Website]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if !ok {
		return pitch.Result{Success: true}
	}
	return res
}

func (f *fakePitchClient) websites() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Website
	}
	return out
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadPitched(ctx context.Context, payload queue.LeadPitchedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByOwner(ctx context.Context, ownerID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindWebsitesByOwner(ctx context.Context, ownerID string, websites []string) ([]string, error) {
	args := m.Called(ctx, ownerID, websites)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) InsertMany(ctx context.Context, leads []*entity.Lead, opts entity.InsertOptions) ([]*entity.Lead, error) {
	args := m.Called(ctx, leads, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, ownerID string, sel entity.LeadSelector, patch entity.LeadPatch) (*entity.Lead, error) {
	args := m.Called(ctx, ownerID, sel, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// plainHasher stands in for bcrypt in account tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if strings.TrimPrefix(hash, "hashed:") != password {
		return errMismatch
	}
	return nil
}

var errMismatch = errors.New("password mismatch")

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}
