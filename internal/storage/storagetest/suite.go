// Package storagetest holds the behavioral contract every storage backend must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/KpG782/qr-registration/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// Suite runs the store contract against a fresh, empty store per test.
type Suite struct {
	suite.Suite

	NewStore func(t *testing.T) storage.Store

	store storage.Store
	ctx   context.Context
	now   time.Time
}

func (s *Suite) SetupTest() {
	s.store = s.NewStore(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
}

func (s *Suite) createEvent(name string, createdAt time.Time) domain.Event {
	event := domain.Event{ID: uuid.NewString(), Name: name, CreatedAt: createdAt}
	s.Require().NoError(s.store.CreateEvent(s.ctx, event))
	return event
}

func (s *Suite) createCategory(eventID, name string) domain.Category {
	category := domain.Category{ID: uuid.NewString(), EventID: eventID, Name: name, CreatedAt: s.now}
	s.Require().NoError(s.store.CreateCategory(s.ctx, category))
	return category
}

func (s *Suite) newParticipant(categoryID, email string) domain.Participant {
	return domain.Participant{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		Email:      email,
		FullName:   "Test " + email,
		Status:     domain.AttendancePending,
		CreatedAt:  s.now,
	}
}

func (s *Suite) createParticipant(categoryID, email string) domain.Participant {
	p := s.newParticipant(categoryID, email)
	s.Require().NoError(s.store.CreateParticipant(s.ctx, p))
	return p
}

func (s *Suite) TestEvents_RoundTripAndOrdering() {
	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	older := domain.Event{
		ID:          uuid.NewString(),
		Name:        "Expo",
		Description: "Annual expo",
		Date:        &day,
		CreatedAt:   s.now,
	}
	s.Require().NoError(s.store.CreateEvent(s.ctx, older))
	newer := s.createEvent("Summit", s.now.Add(time.Hour))

	got, err := s.store.GetEvent(s.ctx, older.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(older.Name, got.Name)
	s.Equal("Annual expo", got.Description)
	s.Require().NotNil(got.Date)
	s.True(day.Equal(*got.Date))
	s.True(s.now.Equal(got.CreatedAt))

	events, err := s.store.ListEvents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(newer.ID, events[0].ID)
	s.Equal(older.ID, events[1].ID)
}

func (s *Suite) TestEvents_UpdateAndMissing() {
	event := s.createEvent("Expo", s.now)

	name := "Expo 2025"
	updated, err := s.store.UpdateEvent(s.ctx, event.ID, domain.EventPatch{Name: &name})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Equal("Expo 2025", updated.Name)

	got, err := s.store.GetEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Equal("Expo 2025", got.Name)

	missing, err := s.store.UpdateEvent(s.ctx, uuid.NewString(), domain.EventPatch{Name: &name})
	s.Require().NoError(err)
	s.Nil(missing)

	none, err := s.store.GetEvent(s.ctx, uuid.NewString())
	s.Require().NoError(err)
	s.Nil(none)
}

func (s *Suite) TestEvents_SummariesCountChildren() {
	hackathon := s.createEvent("Hackathon", s.now)
	empty := s.createEvent("Empty", s.now.Add(time.Hour))
	finals := s.createCategory(hackathon.ID, "Finals")
	qualifiers := s.createCategory(hackathon.ID, "Qualifiers")
	s.createParticipant(finals.ID, "ann@x.io")
	s.createParticipant(finals.ID, "bob@x.io")
	s.createParticipant(qualifiers.ID, "cy@x.io")

	summaries, err := s.store.ListEventSummaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)

	s.Equal(empty.ID, summaries[0].ID)
	s.Zero(summaries[0].CategoryCount)
	s.Zero(summaries[0].ParticipantCount)

	s.Equal(hackathon.ID, summaries[1].ID)
	s.Equal("Hackathon", summaries[1].Name)
	s.True(s.now.Equal(summaries[1].CreatedAt))
	s.Equal(2, summaries[1].CategoryCount)
	s.Equal(3, summaries[1].ParticipantCount)
}

// Both backends hand back empty, non-nil slices when nothing matches.
func (s *Suite) TestLists_EmptyAreNonNil() {
	events, err := s.store.ListEvents(s.ctx)
	s.Require().NoError(err)
	s.NotNil(events)
	s.Empty(events)

	summaries, err := s.store.ListEventSummaries(s.ctx)
	s.Require().NoError(err)
	s.NotNil(summaries)
	s.Empty(summaries)

	categories, err := s.store.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.NotNil(categories)
	s.Empty(categories)

	byEvent, err := s.store.ListCategoriesByEvent(s.ctx, uuid.NewString())
	s.Require().NoError(err)
	s.NotNil(byEvent)
	s.Empty(byEvent)

	participants, err := s.store.ListParticipants(s.ctx)
	s.Require().NoError(err)
	s.NotNil(participants)
	s.Empty(participants)

	byCategory, err := s.store.ListParticipantsByCategory(s.ctx, uuid.NewString())
	s.Require().NoError(err)
	s.NotNil(byCategory)
	s.Empty(byCategory)
}

func (s *Suite) TestCategories_RequireEvent() {
	err := s.store.CreateCategory(s.ctx, domain.Category{
		ID:        uuid.NewString(),
		EventID:   uuid.NewString(),
		Name:      "Orphan",
		CreatedAt: s.now,
	})
	s.ErrorIs(err, domain.ErrEventNotFound)
}

func (s *Suite) TestCategories_ListAndUpdate() {
	event := s.createEvent("Hackathon", s.now)
	other := s.createEvent("Other", s.now)
	finals := s.createCategory(event.ID, "Finals")
	s.createCategory(other.ID, "Qualifiers")

	byEvent, err := s.store.ListCategoriesByEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Require().Len(byEvent, 1)
	s.Equal(finals.ID, byEvent[0].ID)

	all, err := s.store.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	renamed, err := s.store.UpdateCategory(s.ctx, finals.ID, "Grand Finals")
	s.Require().NoError(err)
	s.Require().NotNil(renamed)
	s.Equal("Grand Finals", renamed.Name)
	s.Equal(event.ID, renamed.EventID)

	missing, err := s.store.UpdateCategory(s.ctx, uuid.NewString(), "x")
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *Suite) TestParticipants_UniquePerCategory() {
	event := s.createEvent("Hackathon", s.now)
	finals := s.createCategory(event.ID, "Finals")
	semis := s.createCategory(event.ID, "Semis")

	s.createParticipant(finals.ID, "ann@x.io")

	err := s.store.CreateParticipant(s.ctx, s.newParticipant(finals.ID, "ann@x.io"))
	s.ErrorIs(err, domain.ErrDuplicateEmail)

	s.NoError(s.store.CreateParticipant(s.ctx, s.newParticipant(semis.ID, "ann@x.io")))
	s.NoError(s.store.CreateParticipant(s.ctx, s.newParticipant(finals.ID, "Ann@x.io")), "storage is case-sensitive")

	err = s.store.CreateParticipant(s.ctx, s.newParticipant(uuid.NewString(), "bo@x.io"))
	s.ErrorIs(err, domain.ErrCategoryNotFound)
}

func (s *Suite) TestParticipants_LookupAndList() {
	event := s.createEvent("Hackathon", s.now)
	finals := s.createCategory(event.ID, "Finals")

	p := s.newParticipant(finals.ID, "ann@x.io")
	p.SchoolInstitution = "MIT"
	s.Require().NoError(s.store.CreateParticipant(s.ctx, p))
	s.createParticipant(finals.ID, "bo@x.io")

	got, err := s.store.FindParticipantByEmail(s.ctx, finals.ID, "ann@x.io")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(p.ID, got.ID)
	s.Equal("MIT", got.SchoolInstitution)
	s.Equal(domain.AttendancePending, got.Status)
	s.Nil(got.CheckedInAt)
	s.Nil(got.WinnerRank)

	none, err := s.store.FindParticipantByEmail(s.ctx, finals.ID, "ANN@x.io")
	s.Require().NoError(err)
	s.Nil(none)

	none, err = s.store.GetParticipant(s.ctx, uuid.NewString())
	s.Require().NoError(err)
	s.Nil(none)

	list, err := s.store.ListParticipantsByCategory(s.ctx, finals.ID)
	s.Require().NoError(err)
	s.Len(list, 2)

	all, err := s.store.ListParticipants(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *Suite) TestParticipants_Update() {
	event := s.createEvent("Hackathon", s.now)
	finals := s.createCategory(event.ID, "Finals")
	ann := s.createParticipant(finals.ID, "ann@x.io")
	s.createParticipant(finals.ID, "bo@x.io")

	rank := 1
	school := "State U"
	updated, err := s.store.UpdateParticipant(s.ctx, ann.ID, domain.ParticipantPatch{
		WinnerRank:        &rank,
		SchoolInstitution: &school,
	})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Equal(1, *updated.WinnerRank)

	got, err := s.store.GetParticipant(s.ctx, ann.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.WinnerRank)
	s.Equal(1, *got.WinnerRank)
	s.Equal("State U", got.SchoolInstitution)
	s.Equal("ann@x.io", got.Email)

	cleared, err := s.store.UpdateParticipant(s.ctx, ann.ID, domain.ParticipantPatch{ClearWinnerRank: true})
	s.Require().NoError(err)
	s.Nil(cleared.WinnerRank)

	taken := "bo@x.io"
	_, err = s.store.UpdateParticipant(s.ctx, ann.ID, domain.ParticipantPatch{Email: &taken})
	s.ErrorIs(err, domain.ErrDuplicateEmail)

	missing, err := s.store.UpdateParticipant(s.ctx, uuid.NewString(), domain.ParticipantPatch{Email: &taken})
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *Suite) TestParticipants_CheckInRestamps() {
	event := s.createEvent("Hackathon", s.now)
	finals := s.createCategory(event.ID, "Finals")
	ann := s.createParticipant(finals.ID, "ann@x.io")

	first := s.now.Add(time.Minute)
	got, err := s.store.CheckInParticipant(s.ctx, ann.ID, first)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(domain.AttendanceCheckedIn, got.Status)
	s.True(first.Equal(*got.CheckedInAt))

	second := first.Add(time.Hour)
	got, err = s.store.CheckInParticipant(s.ctx, ann.ID, second)
	s.Require().NoError(err)
	s.True(second.Equal(*got.CheckedInAt))

	missing, err := s.store.CheckInParticipant(s.ctx, uuid.NewString(), second)
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *Suite) TestParticipants_CheckInIfPendingStampsOnce() {
	event := s.createEvent("Hackathon", s.now)
	finals := s.createCategory(event.ID, "Finals")
	ann := s.createParticipant(finals.ID, "ann@x.io")

	first := s.now.Add(time.Minute)
	got, changed, err := s.store.CheckInIfPending(s.ctx, ann.ID, first)
	s.Require().NoError(err)
	s.True(changed)
	s.True(first.Equal(*got.CheckedInAt))

	got, changed, err = s.store.CheckInIfPending(s.ctx, ann.ID, first.Add(time.Hour))
	s.Require().NoError(err)
	s.False(changed)
	s.Require().NotNil(got)
	s.True(first.Equal(*got.CheckedInAt))

	got, changed, err = s.store.CheckInIfPending(s.ctx, uuid.NewString(), first)
	s.Require().NoError(err)
	s.False(changed)
	s.Nil(got)
}

func (s *Suite) TestDelete_Cascades() {
	event := s.createEvent("Hackathon", s.now)
	finals := s.createCategory(event.ID, "Finals")
	semis := s.createCategory(event.ID, "Semis")
	ann := s.createParticipant(finals.ID, "ann@x.io")
	bo := s.createParticipant(semis.ID, "bo@x.io")

	existed, err := s.store.DeleteCategory(s.ctx, semis.ID)
	s.Require().NoError(err)
	s.True(existed)
	gone, err := s.store.GetParticipant(s.ctx, bo.ID)
	s.Require().NoError(err)
	s.Nil(gone)

	existed, err = s.store.DeleteEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.True(existed)

	category, err := s.store.GetCategory(s.ctx, finals.ID)
	s.Require().NoError(err)
	s.Nil(category)
	gone, err = s.store.GetParticipant(s.ctx, ann.ID)
	s.Require().NoError(err)
	s.Nil(gone)

	existed, err = s.store.DeleteEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.False(existed)
}

func (s *Suite) TestDeleteParticipant() {
	event := s.createEvent("Hackathon", s.now)
	finals := s.createCategory(event.ID, "Finals")
	ann := s.createParticipant(finals.ID, "ann@x.io")

	existed, err := s.store.DeleteParticipant(s.ctx, ann.ID)
	s.Require().NoError(err)
	s.True(existed)

	existed, err = s.store.DeleteParticipant(s.ctx, ann.ID)
	s.Require().NoError(err)
	s.False(existed)
}

func (s *Suite) TestCounts() {
	event := s.createEvent("Hackathon", s.now)
	empty := s.createEvent("Empty", s.now)
	finals := s.createCategory(event.ID, "Finals")
	semis := s.createCategory(event.ID, "Semis")
	ann := s.createParticipant(finals.ID, "ann@x.io")
	s.createParticipant(finals.ID, "bo@x.io")
	s.createParticipant(semis.ID, "cy@x.io")

	_, err := s.store.CheckInParticipant(s.ctx, ann.ID, s.now)
	s.Require().NoError(err)

	stats, err := s.store.ParticipantStats(s.ctx, finals.ID)
	s.Require().NoError(err)
	s.Equal(domain.ParticipantStats{Total: 2, CheckedIn: 1, Pending: 1}, stats)

	categories, err := s.store.CountCategoriesByEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Equal(2, categories)

	participants, err := s.store.CountParticipantsByEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Equal(3, participants)

	zero, err := s.store.CountParticipantsByEvent(s.ctx, empty.ID)
	s.Require().NoError(err)
	s.Zero(zero)

	totals, err := s.store.Totals(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.Totals{Events: 2, Categories: 2, Participants: 3, CheckedIn: 1}, totals)
}
