package app

import (
	"context"
	"strings"
	"time"

	"github.com/KpG782/qr-registration/internal/clock"
	"github.com/KpG782/qr-registration/internal/domain"
)

type AdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) (bool, error)

	CreateCategory(ctx context.Context, category domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListCategoriesByEvent(ctx context.Context, eventID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	ListEventSummaries(ctx context.Context) ([]domain.EventSummary, error)
	ParticipantStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error)
	CountCategoriesByEvent(ctx context.Context, eventID string) (int, error)
	CountParticipantsByEvent(ctx context.Context, eventID string) (int, error)
}

// AdminService manages events and their categories for organizers.
type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name        string
	Description string
	Date        *time.Time
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}

	event := domain.Event{
		ID:          newUUID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		CreatedAt:   stamp(s.clock),
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// ListEvents lists every event with its counts, newest first.
func (s *AdminService) ListEvents(ctx context.Context) ([]domain.EventSummary, error) {
	return s.repo.ListEventSummaries(ctx)
}

func (s *AdminService) GetEvent(ctx context.Context, id string) (domain.EventSummary, error) {
	if id == "" {
		return domain.EventSummary{}, domain.ErrInvalidID
	}
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.EventSummary{}, err
	}
	if event == nil {
		return domain.EventSummary{}, domain.ErrEventNotFound
	}
	return s.summarizeEvent(ctx, *event)
}

func (s *AdminService) summarizeEvent(ctx context.Context, event domain.Event) (domain.EventSummary, error) {
	categories, err := s.repo.CountCategoriesByEvent(ctx, event.ID)
	if err != nil {
		return domain.EventSummary{}, err
	}
	participants, err := s.repo.CountParticipantsByEvent(ctx, event.ID)
	if err != nil {
		return domain.EventSummary{}, err
	}
	return domain.EventSummary{
		Event:            event,
		CategoryCount:    categories,
		ParticipantCount: participants,
	}, nil
}

func (s *AdminService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	if err := patch.Validate(); err != nil {
		return domain.Event{}, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}

	event, err := s.repo.UpdateEvent(ctx, id, patch)
	if err != nil {
		return domain.Event{}, err
	}
	if event == nil {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return *event, nil
}

// DeleteEvent removes the event together with its categories and participants.
func (s *AdminService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	existed, err := s.repo.DeleteEvent(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrEventNotFound
	}
	return nil
}

type CreateCategoryInput struct {
	EventID string
	Name    string
}

func (s *AdminService) CreateCategory(ctx context.Context, in CreateCategoryInput) (domain.Category, error) {
	if in.EventID == "" {
		return domain.Category{}, domain.ErrInvalidID
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Category{}, domain.ErrCategoryNameRequired
	}

	event, err := s.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Category{}, err
	}
	if event == nil {
		return domain.Category{}, domain.ErrEventNotFound
	}

	category := domain.Category{
		ID:        newUUID(),
		EventID:   in.EventID,
		Name:      name,
		CreatedAt: stamp(s.clock),
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// ListCategories lists the categories of one event, or of all events when eventID is empty.
func (s *AdminService) ListCategories(ctx context.Context, eventID string) ([]domain.CategorySummary, error) {
	var (
		categories []domain.Category
		err        error
	)
	if eventID == "" {
		categories, err = s.repo.ListCategories(ctx)
	} else {
		categories, err = s.repo.ListCategoriesByEvent(ctx, eventID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.CategorySummary, 0, len(categories))
	for _, category := range categories {
		summary, err := s.summarizeCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *AdminService) GetCategory(ctx context.Context, id string) (domain.CategorySummary, error) {
	if id == "" {
		return domain.CategorySummary{}, domain.ErrInvalidID
	}
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return domain.CategorySummary{}, err
	}
	if category == nil {
		return domain.CategorySummary{}, domain.ErrCategoryNotFound
	}
	return s.summarizeCategory(ctx, *category)
}

func (s *AdminService) summarizeCategory(ctx context.Context, category domain.Category) (domain.CategorySummary, error) {
	stats, err := s.repo.ParticipantStats(ctx, category.ID)
	if err != nil {
		return domain.CategorySummary{}, err
	}
	return domain.CategorySummary{Category: category, ParticipantCount: stats.Total}, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id, name string) (domain.Category, error) {
	if id == "" {
		return domain.Category{}, domain.ErrInvalidID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.ErrCategoryNameRequired
	}
	category, err := s.repo.UpdateCategory(ctx, id, name)
	if err != nil {
		return domain.Category{}, err
	}
	if category == nil {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return *category, nil
}

// DeleteCategory removes the category together with its participants.
func (s *AdminService) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	existed, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrCategoryNotFound
	}
	return nil
}
