package http

import (
	"context"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/domain"
)

type stubEventService struct {
	created domain.Event
	events  []domain.EventSummary
	patch   domain.EventPatch
	err     error
}

func (s *stubEventService) CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error) {
	if s.err != nil {
		return domain.Event{}, s.err
	}
	s.created = domain.Event{ID: "event-1", Name: in.Name, Description: in.Description, Date: in.Date}
	return s.created, nil
}

func (s *stubEventService) ListEvents(ctx context.Context) ([]domain.EventSummary, error) {
	return s.events, s.err
}

func (s *stubEventService) GetEvent(ctx context.Context, id string) (domain.EventSummary, error) {
	if s.err != nil {
		return domain.EventSummary{}, s.err
	}
	return domain.EventSummary{Event: domain.Event{ID: id, Name: "Hackathon"}}, nil
}

func (s *stubEventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	s.patch = patch
	if s.err != nil {
		return domain.Event{}, s.err
	}
	return patch.Apply(domain.Event{ID: id, Name: "Hackathon"}), nil
}

func (s *stubEventService) DeleteEvent(ctx context.Context, id string) error {
	return s.err
}

type stubCategoryService struct {
	category domain.CategorySummary
	eventID  string
	err      error
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, in app.CreateCategoryInput) (domain.Category, error) {
	if s.err != nil {
		return domain.Category{}, s.err
	}
	return domain.Category{ID: "cat-1", EventID: in.EventID, Name: in.Name}, nil
}

func (s *stubCategoryService) ListCategories(ctx context.Context, eventID string) ([]domain.CategorySummary, error) {
	s.eventID = eventID
	if s.err != nil {
		return nil, s.err
	}
	return []domain.CategorySummary{s.category}, nil
}

func (s *stubCategoryService) GetCategory(ctx context.Context, id string) (domain.CategorySummary, error) {
	if s.err != nil {
		return domain.CategorySummary{}, s.err
	}
	return s.category, nil
}

func (s *stubCategoryService) UpdateCategory(ctx context.Context, id, name string) (domain.Category, error) {
	if s.err != nil {
		return domain.Category{}, s.err
	}
	return domain.Category{ID: id, Name: name}, nil
}

func (s *stubCategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.err
}

type stubParticipantService struct {
	bulkIn  app.BulkCreateInput
	bulkOut app.BulkCreateResult
	update  app.UpdateParticipantInput
	found   *domain.Participant
	existed bool
	calls   int
	err     error
}

func (s *stubParticipantService) Create(ctx context.Context, in app.CreateParticipantInput) (domain.Participant, error) {
	s.calls++
	if s.err != nil {
		return domain.Participant{}, s.err
	}
	return domain.Participant{
		ID:         "p-1",
		CategoryID: in.CategoryID,
		Email:      in.Email,
		FullName:   in.FullName,
		Status:     domain.AttendancePending,
	}, nil
}

func (s *stubParticipantService) BulkCreate(ctx context.Context, in app.BulkCreateInput) (app.BulkCreateResult, error) {
	s.calls++
	s.bulkIn = in
	return s.bulkOut, s.err
}

func (s *stubParticipantService) Get(ctx context.Context, id string) (domain.Participant, error) {
	if s.err != nil {
		return domain.Participant{}, s.err
	}
	return domain.Participant{ID: id, Status: domain.AttendancePending}, nil
}

func (s *stubParticipantService) List(ctx context.Context, categoryID string) ([]domain.Participant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Participant{{ID: "p-1", CategoryID: categoryID, Status: domain.AttendancePending}}, nil
}

func (s *stubParticipantService) FindByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error) {
	return s.found, s.err
}

func (s *stubParticipantService) Update(ctx context.Context, id string, in app.UpdateParticipantInput) (domain.Participant, error) {
	s.update = in
	if s.err != nil {
		return domain.Participant{}, s.err
	}
	return domain.Participant{ID: id, Status: domain.AttendancePending}, nil
}

func (s *stubParticipantService) CheckIn(ctx context.Context, id string) (domain.Participant, error) {
	if s.err != nil {
		return domain.Participant{}, s.err
	}
	return domain.Participant{ID: id, Status: domain.AttendanceCheckedIn}, nil
}

func (s *stubParticipantService) Delete(ctx context.Context, id string) (bool, error) {
	return s.existed, s.err
}

type stubCheckInService struct {
	identify app.IdentifyResult
	confirm  app.ConfirmResult
	err      error
}

func (s *stubCheckInService) Identify(ctx context.Context, in app.IdentifyInput) (app.IdentifyResult, error) {
	return s.identify, s.err
}

func (s *stubCheckInService) Confirm(ctx context.Context, in app.ConfirmInput) (app.ConfirmResult, error) {
	return s.confirm, s.err
}

type stubStatsService struct {
	stats  domain.ParticipantStats
	totals domain.Totals
	err    error
}

func (s *stubStatsService) CategoryStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error) {
	return s.stats, s.err
}

func (s *stubStatsService) EventStats(ctx context.Context, eventID string) (app.EventStats, error) {
	return app.EventStats{Categories: 1, Participants: s.stats.Total}, s.err
}

func (s *stubStatsService) Totals(ctx context.Context) (domain.Totals, error) {
	return s.totals, s.err
}
