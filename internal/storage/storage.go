// Package storage defines the persistence contract shared by the embedded and hosted backends.
package storage

import (
	"context"
	"time"

	"github.com/KpG782/qr-registration/internal/domain"
)

// Lookups return a nil record and a nil error when nothing matches.
// Errors are reserved for storage failures and for the domain errors
// documented on each method.
type EventStore interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	// DeleteEvent removes the event with its categories and their participants.
	DeleteEvent(ctx context.Context, id string) (bool, error)
}

type CategoryStore interface {
	// CreateCategory returns domain.ErrEventNotFound when the event does not exist.
	CreateCategory(ctx context.Context, category domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListCategoriesByEvent(ctx context.Context, eventID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error)
	// DeleteCategory removes the category with its participants.
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

type ParticipantStore interface {
	// CreateParticipant returns domain.ErrDuplicateEmail when the email is already
	// registered in the category and domain.ErrCategoryNotFound for an unknown category.
	CreateParticipant(ctx context.Context, p domain.Participant) error
	GetParticipant(ctx context.Context, id string) (*domain.Participant, error)
	// FindParticipantByEmail matches the stored email exactly.
	FindParticipantByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	ListParticipantsByCategory(ctx context.Context, categoryID string) ([]domain.Participant, error)
	// UpdateParticipant returns domain.ErrDuplicateEmail when an email change collides.
	UpdateParticipant(ctx context.Context, id string, patch domain.ParticipantPatch) (*domain.Participant, error)
	// CheckInParticipant marks the participant checked in at the given time, re-stamping if needed.
	CheckInParticipant(ctx context.Context, id string, at time.Time) (*domain.Participant, error)
	// CheckInIfPending stamps only a pending participant. The boolean reports whether
	// this call performed the transition; the returned record is the current state either way.
	CheckInIfPending(ctx context.Context, id string, at time.Time) (*domain.Participant, bool, error)
	DeleteParticipant(ctx context.Context, id string) (bool, error)
}

type StatsStore interface {
	// ListEventSummaries lists events with their category and participant counts
	// in one query, newest first.
	ListEventSummaries(ctx context.Context) ([]domain.EventSummary, error)
	ParticipantStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error)
	CountCategoriesByEvent(ctx context.Context, eventID string) (int, error)
	CountParticipantsByEvent(ctx context.Context, eventID string) (int, error)
	Totals(ctx context.Context) (domain.Totals, error)
}

// Store is the full gateway handed to the application at startup.
type Store interface {
	EventStore
	CategoryStore
	ParticipantStore
	StatsStore
	Close() error
}
