package http

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/KpG782/qr-registration/internal/domain"
)

type eventResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Date             *time.Time `json:"date"`
	CreatedAt        time.Time  `json:"created_at"`
	CategoryCount    *int       `json:"categoryCount,omitempty"`
	ParticipantCount *int       `json:"participantCount,omitempty"`
}

type categoryResponse struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"created_at"`
	ParticipantCount *int      `json:"participantCount,omitempty"`
}

type participantResponse struct {
	ID                string     `json:"id"`
	CategoryID        string     `json:"category_id"`
	Email             string     `json:"email"`
	FullName          string     `json:"full_name"`
	SchoolInstitution string     `json:"school_institution"`
	AttendanceStatus  string     `json:"attendance_status"`
	CheckedInAt       *time.Time `json:"checked_in_at"`
	WinnerRank        *int       `json:"winner_rank"`
	CreatedAt         time.Time  `json:"created_at"`
}

type statsResponse struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checkedIn"`
	Pending   int `json:"pending"`
}

func newEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

func newEventSummaryResponse(s domain.EventSummary) eventResponse {
	resp := newEventResponse(s.Event)
	categories, participants := s.CategoryCount, s.ParticipantCount
	resp.CategoryCount = &categories
	resp.ParticipantCount = &participants
	return resp
}

func newCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		EventID:   c.EventID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

func newCategorySummaryResponse(s domain.CategorySummary) categoryResponse {
	resp := newCategoryResponse(s.Category)
	participants := s.ParticipantCount
	resp.ParticipantCount = &participants
	return resp
}

func newParticipantResponse(p domain.Participant) participantResponse {
	return participantResponse{
		ID:                p.ID,
		CategoryID:        p.CategoryID,
		Email:             p.Email,
		FullName:          p.FullName,
		SchoolInstitution: p.SchoolInstitution,
		AttendanceStatus:  string(p.Status),
		CheckedInAt:       p.CheckedInAt,
		WinnerRank:        p.WinnerRank,
		CreatedAt:         p.CreatedAt,
	}
}

func newParticipantResponses(ps []domain.Participant) []participantResponse {
	resp := make([]participantResponse, 0, len(ps))
	for _, p := range ps {
		resp = append(resp, newParticipantResponse(p))
	}
	return resp
}

// isNull reports whether a raw field was sent as an explicit JSON null.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t.UTC(), nil
}
