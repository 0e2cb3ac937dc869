package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/application"
	"hirelane/internal/domain/opportunity"

	"github.com/google/uuid"
)

type memCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	locks map[string]bool
	err   error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *memCache) ReleaseLock(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, key)
	return nil
}

type memAccounts struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]account.Account
	hires map[uuid.UUID]int
}

func newMemAccounts(accs ...account.Account) *memAccounts {
	m := &memAccounts{byID: map[uuid.UUID]account.Account{}, hires: map[uuid.UUID]int{}}
	for _, a := range accs {
		m.byID[a.ID] = a
	}
	return m
}

func (m *memAccounts) Create(_ context.Context, a account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[a.ID] = a
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (m *memAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memAccounts) UpdateProfile(_ context.Context, a account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[a.ID]; !ok {
		return account.ErrNotFound
	}
	m.byID[a.ID] = a
	return nil
}

func (m *memAccounts) IncrementHires(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hires[id]++
	return nil
}

type memOpportunities struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]opportunity.Opportunity
	shortlisted map[uuid.UUID]int
	hires       map[uuid.UUID]int
	applied     map[uuid.UUID]int
	incErr      error
}

func newMemOpportunities(opps ...opportunity.Opportunity) *memOpportunities {
	m := &memOpportunities{
		byID:        map[uuid.UUID]opportunity.Opportunity{},
		shortlisted: map[uuid.UUID]int{},
		hires:       map[uuid.UUID]int{},
		applied:     map[uuid.UUID]int{},
	}
	for _, o := range opps {
		m.byID[o.ID] = o
	}
	return m
}

func (m *memOpportunities) Create(_ context.Context, o opportunity.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = o
	return nil
}

func (m *memOpportunities) GetByID(_ context.Context, kind opportunity.Kind, id uuid.UUID) (opportunity.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok || o.Kind != kind {
		return opportunity.Opportunity{}, opportunity.ErrNotFound
	}
	return o, nil
}

func (m *memOpportunities) ListOpen(_ context.Context, limit, offset int) ([]opportunity.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]opportunity.Opportunity, 0, len(m.byID))
	for _, o := range m.byID {
		if o.IsOpen() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memOpportunities) inc(counter map[uuid.UUID]int, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incErr != nil {
		return m.incErr
	}
	counter[id]++
	return nil
}

func (m *memOpportunities) IncrementApplications(_ context.Context, _ opportunity.Kind, id uuid.UUID) error {
	return m.inc(m.applied, id)
}

func (m *memOpportunities) IncrementShortlisted(_ context.Context, _ opportunity.Kind, id uuid.UUID) error {
	return m.inc(m.shortlisted, id)
}

func (m *memOpportunities) IncrementHires(_ context.Context, _ opportunity.Kind, id uuid.UUID) error {
	return m.inc(m.hires, id)
}

// memApplications mirrors the conditional update of the Postgres store.
type memApplications struct {
	mu   sync.Mutex
	byID map[uuid.UUID]application.Application
}

func newMemApplications() *memApplications {
	return &memApplications{byID: map[uuid.UUID]application.Application{}}
}

func (m *memApplications) Create(_ context.Context, app application.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.ApplicantID == app.ApplicantID && a.Opportunity == app.Opportunity && !a.Status.IsTerminal() {
			return application.ErrConflict
		}
	}
	m.byID[app.ID] = app
	return nil
}

func (m *memApplications) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (m *memApplications) List(_ context.Context, f application.ListFilter) ([]application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []application.Application{}
	for _, a := range m.byID {
		if f.ApplicantID != uuid.Nil && a.ApplicantID != f.ApplicantID {
			continue
		}
		if f.EmployerID != uuid.Nil && a.EmployerID != f.EmployerID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memApplications) ExistsActive(_ context.Context, applicantID uuid.UUID, ref application.OpportunityRef) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.ApplicantID == applicantID && a.Opportunity == ref && !a.Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApplications) Update(_ context.Context, prev, next application.Application) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[prev.ID]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	if cur.Version != prev.Version || cur.Status != prev.Status {
		return application.Application{}, application.ErrConflict
	}
	next.Version = prev.Version + 1
	m.byID[next.ID] = next
	return next, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []application.Application
}

func (n *recordingNotifier) ApplicationStatusChanged(app application.Application) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, app)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}
