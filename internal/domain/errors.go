package domain

import "errors"

var (
	ErrInvalidID               = errors.New("invalid id")
	ErrEventNameRequired       = errors.New("event name is required")
	ErrCategoryNameRequired    = errors.New("category name is required")
	ErrEmailRequired           = errors.New("email is required")
	ErrFullNameRequired        = errors.New("full name is required")
	ErrInvalidEmail            = errors.New("invalid email format")
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
	ErrInvalidWinnerRank       = errors.New("winner rank must be 1, 2 or 3")
	ErrInvalidDate             = errors.New("invalid date")

	ErrEventNotFound       = errors.New("event not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrParticipantNotFound = errors.New("participant not found")

	ErrDuplicateEmail     = errors.New("participant with this email already exists in this category")
	ErrWinnerRankTaken    = errors.New("winner rank already assigned in this category")
	ErrAttendanceReversal = errors.New("checked-in participant cannot return to pending")
)

var (
	validationErrs = []error{
		ErrInvalidID,
		ErrEventNameRequired,
		ErrCategoryNameRequired,
		ErrEmailRequired,
		ErrFullNameRequired,
		ErrInvalidEmail,
		ErrInvalidAttendanceStatus,
		ErrInvalidWinnerRank,
		ErrInvalidDate,
	}
	notFoundErrs = []error{ErrEventNotFound, ErrCategoryNotFound, ErrParticipantNotFound}
	conflictErrs = []error{ErrDuplicateEmail, ErrWinnerRankTaken, ErrAttendanceReversal}
)

// IsValidation reports whether err is caused by malformed input.
func IsValidation(err error) bool { return isAny(err, validationErrs) }

// IsNotFound reports whether err refers to a missing record.
func IsNotFound(err error) bool { return isAny(err, notFoundErrs) }

// IsConflict reports whether err violates a uniqueness or state rule.
func IsConflict(err error) bool { return isAny(err, conflictErrs) }

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
