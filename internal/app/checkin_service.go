package app

import (
	"context"
	"time"

	"github.com/KpG782/qr-registration/internal/clock"
	"github.com/KpG782/qr-registration/internal/domain"
)

type CheckInRepository interface {
	FindParticipantByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CheckInIfPending(ctx context.Context, id string, at time.Time) (*domain.Participant, bool, error)
}

// CheckInState is where a self-service check-in stands after each step.
type CheckInState string

const (
	CheckInUnidentified     CheckInState = "unidentified"
	CheckInPending          CheckInState = "identified_pending"
	CheckInAlreadyCheckedIn CheckInState = "already_checked_in"
	CheckInConfirmed        CheckInState = "confirmed"
)

// CheckInService runs the two-step self check-in: identify by email, then confirm.
// No state is kept between steps; each call re-reads storage.
type CheckInService struct {
	repo  CheckInRepository
	clock clock.Clock
}

func NewCheckInService(repo CheckInRepository, clk clock.Clock) *CheckInService {
	return &CheckInService{
		repo:  repo,
		clock: clk,
	}
}

type IdentifyInput struct {
	CategoryID string
	Email      string
}

type IdentifyResult struct {
	State       CheckInState
	Participant domain.Participant
	Category    domain.Category
}

// Identify looks up the participant by case-folded email within the category.
// An already checked-in participant is reported, never modified.
func (s *CheckInService) Identify(ctx context.Context, in IdentifyInput) (IdentifyResult, error) {
	if in.CategoryID == "" {
		return IdentifyResult{State: CheckInUnidentified}, domain.ErrInvalidID
	}
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		return IdentifyResult{State: CheckInUnidentified}, domain.ErrEmailRequired
	}
	if !domain.ValidEmail(email) {
		return IdentifyResult{State: CheckInUnidentified}, domain.ErrInvalidEmail
	}

	p, err := s.repo.FindParticipantByEmail(ctx, in.CategoryID, email)
	if err != nil {
		return IdentifyResult{State: CheckInUnidentified}, err
	}
	if p == nil {
		return IdentifyResult{State: CheckInUnidentified}, domain.ErrParticipantNotFound
	}

	category, err := s.repo.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return IdentifyResult{State: CheckInUnidentified}, err
	}
	if category == nil {
		return IdentifyResult{State: CheckInUnidentified}, domain.ErrCategoryNotFound
	}

	state := CheckInPending
	if p.CheckedIn() {
		state = CheckInAlreadyCheckedIn
	}
	return IdentifyResult{State: state, Participant: *p, Category: *category}, nil
}

type ConfirmInput struct {
	ParticipantID string
}

type ConfirmResult struct {
	State       CheckInState
	Participant domain.Participant
}

// Confirm checks in a pending participant. A participant who is already
// checked in keeps the original check-in time.
func (s *CheckInService) Confirm(ctx context.Context, in ConfirmInput) (ConfirmResult, error) {
	if in.ParticipantID == "" {
		return ConfirmResult{State: CheckInUnidentified}, domain.ErrInvalidID
	}

	p, changed, err := s.repo.CheckInIfPending(ctx, in.ParticipantID, stamp(s.clock))
	if err != nil {
		return ConfirmResult{State: CheckInUnidentified}, err
	}
	if p == nil {
		return ConfirmResult{State: CheckInUnidentified}, domain.ErrParticipantNotFound
	}
	if !changed {
		return ConfirmResult{State: CheckInAlreadyCheckedIn, Participant: *p}, nil
	}
	return ConfirmResult{State: CheckInConfirmed, Participant: *p}, nil
}
