package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"JANE@EXAMPLE.COM", true},
		{"not-an-email", false},
		{"jane@example", false},
		{"@example.com", false},
		{"jane @example.com", false},
		{" jane@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.email), "email %q", tt.email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM \t"))
}

func TestParticipantPatch_Apply(t *testing.T) {
	t.Parallel()

	rank := 2
	base := Participant{
		ID:         "p1",
		Email:      "a@b.co",
		FullName:   "Ann",
		Status:     AttendancePending,
		WinnerRank: &rank,
	}

	name := "Ann Lee"
	got := ParticipantPatch{FullName: &name}.Apply(base)
	assert.Equal(t, "Ann Lee", got.FullName)
	assert.Equal(t, "a@b.co", got.Email)
	assert.Equal(t, 2, *got.WinnerRank)

	got = ParticipantPatch{ClearWinnerRank: true}.Apply(base)
	assert.Nil(t, got.WinnerRank)

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	status := AttendanceCheckedIn
	got = ParticipantPatch{Status: &status, CheckedInAt: &at}.Apply(base)
	assert.True(t, got.CheckedIn())
	assert.Equal(t, at, *got.CheckedInAt)
	assert.False(t, base.CheckedIn(), "apply must not mutate the original")
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("create participant: %w", ErrDuplicateEmail)
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))

	assert.True(t, IsValidation(ErrInvalidEmail))
	assert.True(t, IsNotFound(ErrCategoryNotFound))
	assert.False(t, IsValidation(fmt.Errorf("boom")))
}

func TestEventPatch(t *testing.T) {
	t.Parallel()

	empty := "  "
	assert.ErrorIs(t, EventPatch{Name: &empty}.Validate(), ErrEventNameRequired)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ev := Event{Name: "Expo", Date: &day}
	got := EventPatch{ClearDate: true}.Apply(ev)
	assert.Nil(t, got.Date)
	assert.NotNil(t, ev.Date)
}
