package app

import (
	"context"

	"github.com/KpG782/qr-registration/internal/domain"
)

type StatsRepository interface {
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ParticipantStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error)
	CountCategoriesByEvent(ctx context.Context, eventID string) (int, error)
	CountParticipantsByEvent(ctx context.Context, eventID string) (int, error)
	Totals(ctx context.Context) (domain.Totals, error)
}

type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) CategoryStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error) {
	if categoryID == "" {
		return domain.ParticipantStats{}, domain.ErrInvalidID
	}
	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return domain.ParticipantStats{}, err
	}
	if category == nil {
		return domain.ParticipantStats{}, domain.ErrCategoryNotFound
	}
	return s.repo.ParticipantStats(ctx, categoryID)
}

type EventStats struct {
	Categories   int
	Participants int
}

func (s *StatsService) EventStats(ctx context.Context, eventID string) (EventStats, error) {
	if eventID == "" {
		return EventStats{}, domain.ErrInvalidID
	}
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return EventStats{}, err
	}
	if event == nil {
		return EventStats{}, domain.ErrEventNotFound
	}

	categories, err := s.repo.CountCategoriesByEvent(ctx, eventID)
	if err != nil {
		return EventStats{}, err
	}
	participants, err := s.repo.CountParticipantsByEvent(ctx, eventID)
	if err != nil {
		return EventStats{}, err
	}
	return EventStats{Categories: categories, Participants: participants}, nil
}

func (s *StatsService) Totals(ctx context.Context) (domain.Totals, error) {
	return s.repo.Totals(ctx)
}
