package database

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

type ownerWebsite struct {
	owner   string
	website string
}

type memoryLead struct {
	lead *entity.Lead
	seq  uint64
}

// MemoryLeadRepository keeps leads in process memory. The (owner, website)
// index for url leads is checked and written under the same lock, so
// concurrent inserts of one key admit exactly one winner.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads map[string]*memoryLead
	index map[ownerWebsite]string
	seq   uint64
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{
		leads: make(map[string]*memoryLead),
		index: make(map[ownerWebsite]string),
	}
}

func (m *MemoryLeadRepository) FindByOwner(_ context.Context, ownerID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*memoryLead, 0)
	for _, ml := range m.leads {
		if ml.lead.OwnerID != ownerID {
			continue
		}
		if filter.SourceType != "" && ml.lead.SourceType != filter.SourceType {
			continue
		}
		matched = append(matched, ml)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.lead.CreatedAt.Equal(b.lead.CreatedAt) {
			return a.lead.CreatedAt.After(b.lead.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*entity.Lead, len(matched))
	for i, ml := range matched {
		c := *ml.lead
		out[i] = &c
	}
	return out, nil
}

func (m *MemoryLeadRepository) FindByID(_ context.Context, ownerID, id string) (*entity.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ml, ok := m.leads[id]
	if !ok || ml.lead.OwnerID != ownerID {
		return nil, entity.ErrLeadNotFound
	}
	c := *ml.lead
	return &c, nil
}

func (m *MemoryLeadRepository) FindWebsitesByOwner(_ context.Context, ownerID string, websites []string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]string, 0, len(websites))
	seen := make(map[string]bool, len(websites))
	for _, w := range websites {
		if seen[w] {
			continue
		}
		seen[w] = true
		if _, ok := m.index[ownerWebsite{ownerID, w}]; ok {
			found = append(found, w)
		}
	}
	return found, nil
}

func (m *MemoryLeadRepository) Insert(_ context.Context, l *entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(l)
}

func (m *MemoryLeadRepository) insertLocked(l *entity.Lead) error {
	if _, exists := m.leads[l.ID]; exists {
		return errors.New("memory: duplicate lead id")
	}
	if l.SourceType == entity.SourceURL {
		key := ownerWebsite{l.OwnerID, l.Website}
		if _, taken := m.index[key]; taken {
			return entity.ErrDuplicateWebsite
		}
		m.index[key] = l.ID
	}
	m.seq++
	c := *l
	m.leads[l.ID] = &memoryLead{lead: &c, seq: m.seq}
	return nil
}

func (m *MemoryLeadRepository) InsertMany(_ context.Context, leads []*entity.Lead, opts entity.InsertOptions) ([]*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		err := m.insertLocked(l)
		if errors.Is(err, entity.ErrDuplicateWebsite) && opts.TolerateConflicts {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted = append(inserted, l)
	}
	return inserted, nil
}

func (m *MemoryLeadRepository) Update(_ context.Context, ownerID string, sel entity.LeadSelector, patch entity.LeadPatch) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := sel.ID
	if id == "" {
		if sel.Website == "" {
			return nil, errors.New("memory: update requires an id or website selector")
		}
		id = m.index[ownerWebsite{ownerID, sel.Website}]
	}

	ml, ok := m.leads[id]
	if !ok || ml.lead.OwnerID != ownerID {
		return nil, entity.ErrLeadNotFound
	}

	if patch.Status != nil {
		ml.lead.Status = *patch.Status
	}
	if patch.PitchResult != nil {
		ml.lead.PitchResult = *patch.PitchResult
	}
	if patch.PitchMessage != nil {
		ml.lead.PitchMessage = *patch.PitchMessage
	}
	ml.lead.UpdatedAt = time.Now().UTC()

	c := *ml.lead
	return &c, nil
}

func (m *MemoryLeadRepository) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ml, ok := m.leads[id]
	if !ok || ml.lead.OwnerID != ownerID {
		return entity.ErrLeadNotFound
	}
	if ml.lead.SourceType == entity.SourceURL {
		delete(m.index, ownerWebsite{ownerID, ml.lead.Website})
	}
	delete(m.leads, id)
	return nil
}

// MemoryUserRepository stores accounts keyed by id with a case-sensitive
// email index.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*entity.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUserRepository) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[u.Email]; taken {
		return entity.ErrEmailAlreadyExists
	}
	c := *u
	m.users[u.ID] = &c
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *MemoryUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	c := *m.users[id]
	return &c, nil
}

func (m *MemoryUserRepository) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.users[u.ID]
	if !ok {
		return entity.ErrUserNotFound
	}
	if u.Email != cur.Email {
		if _, taken := m.byEmail[u.Email]; taken {
			return entity.ErrEmailAlreadyExists
		}
		delete(m.byEmail, cur.Email)
		m.byEmail[u.Email] = u.ID
	}
	u.UpdatedAt = time.Now().UTC()
	c := *u
	m.users[u.ID] = &c
	return nil
}
