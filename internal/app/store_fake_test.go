package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/KpG782/qr-registration/internal/domain"
)

// memStore is an in-memory store with the same uniqueness and cascade rules as the real backends.
type memStore struct {
	mu           sync.Mutex
	events       map[string]domain.Event
	categories   map[string]domain.Category
	participants map[string]domain.Participant

	failCreateParticipant error
	// perEventCounts counts CountCategoriesByEvent and CountParticipantsByEvent calls.
	perEventCounts int
}

func newMemStore() *memStore {
	return &memStore{
		events:       map[string]domain.Event{},
		categories:   map[string]domain.Category{},
		participants: map[string]domain.Participant{},
	}
}

func (m *memStore) CreateEvent(ctx context.Context, event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *memStore) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) ListEvents(ctx context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	e = patch.Apply(e)
	m.events[id] = e
	return &e, nil
}

func (m *memStore) DeleteEvent(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return false, nil
	}
	for cid, c := range m.categories {
		if c.EventID == id {
			m.deleteCategoryLocked(cid)
		}
	}
	delete(m.events, id)
	return true, nil
}

func (m *memStore) CreateCategory(ctx context.Context, category domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[category.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *memStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return m.ListCategoriesByEvent(ctx, "")
}

func (m *memStore) ListCategoriesByEvent(ctx context.Context, eventID string) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.categories {
		if eventID == "" || c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	c.Name = name
	m.categories[id] = c
	return &c, nil
}

func (m *memStore) DeleteCategory(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return false, nil
	}
	m.deleteCategoryLocked(id)
	return true, nil
}

func (m *memStore) deleteCategoryLocked(id string) {
	for pid, p := range m.participants {
		if p.CategoryID == id {
			delete(m.participants, pid)
		}
	}
	delete(m.categories, id)
}

func (m *memStore) CreateParticipant(ctx context.Context, p domain.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateParticipant != nil {
		return m.failCreateParticipant
	}
	if _, ok := m.categories[p.CategoryID]; !ok {
		return domain.ErrCategoryNotFound
	}
	for _, existing := range m.participants {
		if existing.CategoryID == p.CategoryID && existing.Email == p.Email {
			return domain.ErrDuplicateEmail
		}
	}
	m.participants[p.ID] = p
	return nil
}

func (m *memStore) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memStore) FindParticipantByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants {
		if p.CategoryID == categoryID && p.Email == email {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	return m.ListParticipantsByCategory(ctx, "")
}

func (m *memStore) ListParticipantsByCategory(ctx context.Context, categoryID string) ([]domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Participant
	for _, p := range m.participants {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) UpdateParticipant(ctx context.Context, id string, patch domain.ParticipantPatch) (*domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, nil
	}
	next := patch.Apply(p)
	for _, other := range m.participants {
		if other.ID != id && other.CategoryID == next.CategoryID && other.Email == next.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	m.participants[id] = next
	return &next, nil
}

func (m *memStore) CheckInParticipant(ctx context.Context, id string, at time.Time) (*domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, nil
	}
	p.Status = domain.AttendanceCheckedIn
	p.CheckedInAt = &at
	m.participants[id] = p
	return &p, nil
}

func (m *memStore) CheckInIfPending(ctx context.Context, id string, at time.Time) (*domain.Participant, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, false, nil
	}
	if p.CheckedIn() {
		return &p, false, nil
	}
	p.Status = domain.AttendanceCheckedIn
	p.CheckedInAt = &at
	m.participants[id] = p
	return &p, true, nil
}

func (m *memStore) DeleteParticipant(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.participants[id]; !ok {
		return false, nil
	}
	delete(m.participants, id)
	return true, nil
}

func (m *memStore) ParticipantStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats domain.ParticipantStats
	for _, p := range m.participants {
		if p.CategoryID != categoryID {
			continue
		}
		stats.Total++
		if p.CheckedIn() {
			stats.CheckedIn++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

func (m *memStore) ListEventSummaries(ctx context.Context) ([]domain.EventSummary, error) {
	events, err := m.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventSummary, 0, len(events))
	for _, e := range events {
		sum := domain.EventSummary{Event: e}
		for _, c := range m.categories {
			if c.EventID == e.ID {
				sum.CategoryCount++
			}
		}
		for _, p := range m.participants {
			if c, ok := m.categories[p.CategoryID]; ok && c.EventID == e.ID {
				sum.ParticipantCount++
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

func (m *memStore) CountCategoriesByEvent(ctx context.Context, eventID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perEventCounts++
	n := 0
	for _, c := range m.categories {
		if c.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountParticipantsByEvent(ctx context.Context, eventID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perEventCounts++
	n := 0
	for _, p := range m.participants {
		if c, ok := m.categories[p.CategoryID]; ok && c.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Totals(ctx context.Context) (domain.Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := domain.Totals{
		Events:       len(m.events),
		Categories:   len(m.categories),
		Participants: len(m.participants),
	}
	for _, p := range m.participants {
		if p.CheckedIn() {
			t.CheckedIn++
		}
	}
	return t, nil
}

var errStorage = errors.New("connection reset")
