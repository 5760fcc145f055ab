package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KpG782/qr-registration/internal/clock"
	"github.com/KpG782/qr-registration/internal/domain"
)

type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, p domain.Participant) error
	GetParticipant(ctx context.Context, id string) (*domain.Participant, error)
	FindParticipantByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	ListParticipantsByCategory(ctx context.Context, categoryID string) ([]domain.Participant, error)
	UpdateParticipant(ctx context.Context, id string, patch domain.ParticipantPatch) (*domain.Participant, error)
	CheckInParticipant(ctx context.Context, id string, at time.Time) (*domain.Participant, error)
	DeleteParticipant(ctx context.Context, id string) (bool, error)
}

// ParticipantService is the participant directory: registration, edits and attendance.
type ParticipantService struct {
	repo  ParticipantRepository
	clock clock.Clock
}

func NewParticipantService(repo ParticipantRepository, clk clock.Clock) *ParticipantService {
	return &ParticipantService{
		repo:  repo,
		clock: clk,
	}
}

type CreateParticipantInput struct {
	CategoryID        string
	Email             string
	FullName          string
	SchoolInstitution string
}

// Validate checks a registration without touching storage. The email is kept
// exactly as given; only the check-in lookup folds case.
func (in CreateParticipantInput) Validate() error {
	if in.CategoryID == "" {
		return domain.ErrInvalidID
	}
	if in.Email == "" {
		return domain.ErrEmailRequired
	}
	if !domain.ValidEmail(in.Email) {
		return domain.ErrInvalidEmail
	}
	if strings.TrimSpace(in.FullName) == "" {
		return domain.ErrFullNameRequired
	}
	return nil
}

func (s *ParticipantService) Create(ctx context.Context, in CreateParticipantInput) (domain.Participant, error) {
	if err := in.Validate(); err != nil {
		return domain.Participant{}, err
	}

	p := domain.Participant{
		ID:                newUUID(),
		CategoryID:        in.CategoryID,
		Email:             in.Email,
		FullName:          strings.TrimSpace(in.FullName),
		SchoolInstitution: strings.TrimSpace(in.SchoolInstitution),
		Status:            domain.AttendancePending,
		CreatedAt:         stamp(s.clock),
	}
	if err := s.repo.CreateParticipant(ctx, p); err != nil {
		return domain.Participant{}, err
	}
	return p, nil
}

type BulkRecord struct {
	Email             string
	FullName          string
	SchoolInstitution string
}

type BulkCreateInput struct {
	CategoryID string
	Records    []BulkRecord
}

type BulkCreateResult struct {
	Success int
	Failed  int
	Errors  []string
}

// BulkCreate inserts records one by one. A failed record never undoes earlier ones.
func (s *ParticipantService) BulkCreate(ctx context.Context, in BulkCreateInput) (BulkCreateResult, error) {
	if in.CategoryID == "" {
		return BulkCreateResult{}, domain.ErrInvalidID
	}

	result := BulkCreateResult{Errors: []string{}}
	for _, rec := range in.Records {
		_, err := s.Create(ctx, CreateParticipantInput{
			CategoryID:        in.CategoryID,
			Email:             rec.Email,
			FullName:          rec.FullName,
			SchoolInstitution: rec.SchoolInstitution,
		})
		switch {
		case err == nil:
			result.Success++
		case errors.Is(err, domain.ErrDuplicateEmail):
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate email: %s", rec.Email))
		default:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to add %s: %s", rec.Email, failureReason(err)))
		}
	}
	return result, nil
}

func failureReason(err error) string {
	if domain.IsValidation(err) || domain.IsNotFound(err) || domain.IsConflict(err) {
		return err.Error()
	}
	return "storage error"
}

func (s *ParticipantService) Get(ctx context.Context, id string) (domain.Participant, error) {
	if id == "" {
		return domain.Participant{}, domain.ErrInvalidID
	}
	p, err := s.repo.GetParticipant(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}
	if p == nil {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return *p, nil
}

// List returns the participants of one category, or every participant when categoryID is empty.
func (s *ParticipantService) List(ctx context.Context, categoryID string) ([]domain.Participant, error) {
	if categoryID == "" {
		return s.repo.ListParticipants(ctx)
	}
	return s.repo.ListParticipantsByCategory(ctx, categoryID)
}

// FindByEmail matches the stored email exactly; a nil result means no match.
func (s *ParticipantService) FindByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error) {
	if categoryID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindParticipantByEmail(ctx, categoryID, email)
}

type UpdateParticipantInput struct {
	Email             *string
	FullName          *string
	SchoolInstitution *string
	Status            *domain.AttendanceStatus
	WinnerRank        *int
	ClearWinnerRank   bool
}

func (in UpdateParticipantInput) validate() error {
	if in.Email != nil {
		if *in.Email == "" {
			return domain.ErrEmailRequired
		}
		if !domain.ValidEmail(*in.Email) {
			return domain.ErrInvalidEmail
		}
	}
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		return domain.ErrFullNameRequired
	}
	if in.Status != nil && !in.Status.Valid() {
		return domain.ErrInvalidAttendanceStatus
	}
	if !in.ClearWinnerRank && in.WinnerRank != nil && !domain.ValidWinnerRank(*in.WinnerRank) {
		return domain.ErrInvalidWinnerRank
	}
	return nil
}

// Update applies only the provided fields. Moving to checked_in stamps the
// check-in time; moving a checked-in participant back to pending is refused.
func (s *ParticipantService) Update(ctx context.Context, id string, in UpdateParticipantInput) (domain.Participant, error) {
	if id == "" {
		return domain.Participant{}, domain.ErrInvalidID
	}
	if err := in.validate(); err != nil {
		return domain.Participant{}, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	patch := domain.ParticipantPatch{
		Email:             in.Email,
		FullName:          trimmed(in.FullName),
		SchoolInstitution: trimmed(in.SchoolInstitution),
		Status:            in.Status,
		WinnerRank:        in.WinnerRank,
		ClearWinnerRank:   in.ClearWinnerRank,
	}

	if in.Status != nil {
		switch *in.Status {
		case domain.AttendancePending:
			if current.CheckedIn() {
				return domain.Participant{}, domain.ErrAttendanceReversal
			}
		case domain.AttendanceCheckedIn:
			now := stamp(s.clock)
			patch.CheckedInAt = &now
		}
	}

	if !in.ClearWinnerRank && in.WinnerRank != nil {
		if err := s.ensureRankFree(ctx, current, *in.WinnerRank); err != nil {
			return domain.Participant{}, err
		}
	}

	updated, err := s.repo.UpdateParticipant(ctx, id, patch)
	if err != nil {
		return domain.Participant{}, err
	}
	if updated == nil {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return *updated, nil
}

func (s *ParticipantService) ensureRankFree(ctx context.Context, p domain.Participant, rank int) error {
	others, err := s.repo.ListParticipantsByCategory(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.ID != p.ID && other.WinnerRank != nil && *other.WinnerRank == rank {
			return domain.ErrWinnerRankTaken
		}
	}
	return nil
}

// CheckIn marks the participant checked in now. Calling it again re-stamps the time.
func (s *ParticipantService) CheckIn(ctx context.Context, id string) (domain.Participant, error) {
	if id == "" {
		return domain.Participant{}, domain.ErrInvalidID
	}
	p, err := s.repo.CheckInParticipant(ctx, id, stamp(s.clock))
	if err != nil {
		return domain.Participant{}, err
	}
	if p == nil {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return *p, nil
}

// Delete reports whether the participant existed.
func (s *ParticipantService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, domain.ErrInvalidID
	}
	return s.repo.DeleteParticipant(ctx, id)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
