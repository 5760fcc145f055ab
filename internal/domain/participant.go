package domain

import (
	"regexp"
	"strings"
	"time"
)

// AttendanceStatus tracks whether a participant has checked in.
type AttendanceStatus string

const (
	AttendancePending   AttendanceStatus = "pending"
	AttendanceCheckedIn AttendanceStatus = "checked_in"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePending || s == AttendanceCheckedIn
}

// Participant is a registered attendee of one category.
type Participant struct {
	ID                string
	CategoryID        string
	Email             string
	FullName          string
	SchoolInstitution string
	Status            AttendanceStatus
	CheckedInAt       *time.Time
	WinnerRank        *int
	CreatedAt         time.Time
}

// CheckedIn reports whether the participant has already been checked in.
func (p Participant) CheckedIn() bool {
	return p.Status == AttendanceCheckedIn
}

// ParticipantPatch carries the optional fields of a participant update.
// ClearWinnerRank removes the rank; it takes precedence over WinnerRank.
type ParticipantPatch struct {
	Email             *string
	FullName          *string
	SchoolInstitution *string
	Status            *AttendanceStatus
	CheckedInAt       *time.Time
	WinnerRank        *int
	ClearWinnerRank   bool
}

// Apply returns a copy of p with the patch applied.
func (patch ParticipantPatch) Apply(p Participant) Participant {
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.SchoolInstitution != nil {
		p.SchoolInstitution = *patch.SchoolInstitution
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.CheckedInAt != nil {
		at := *patch.CheckedInAt
		p.CheckedInAt = &at
	}
	if patch.ClearWinnerRank {
		p.WinnerRank = nil
	} else if patch.WinnerRank != nil {
		rank := *patch.WinnerRank
		p.WinnerRank = &rank
	}
	return p
}

// ValidWinnerRank reports whether rank is one of the podium places.
func ValidWinnerRank(rank int) bool {
	return rank >= 1 && rank <= 3
}

// ParticipantStats aggregates attendance for one category.
type ParticipantStats struct {
	Total     int
	CheckedIn int
	Pending   int
}

// Totals are the dashboard-wide counters.
type Totals struct {
	Events       int
	Categories   int
	Participants int
	CheckedIn    int
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail applies the loose local@domain.tld check used on every input path.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail is applied by the self-service check-in lookup only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
