package domain

import (
	"strings"
	"time"
)

// Event is the top-level container organizers create before adding categories.
type Event struct {
	ID          string
	Name        string
	Description string
	Date        *time.Time
	CreatedAt   time.Time
}

// EventPatch carries the optional fields of an event update. Nil means unchanged.
type EventPatch struct {
	Name        *string
	Description *string
	Date        *time.Time
	ClearDate   bool
}

// Apply returns a copy of e with the patch applied.
func (p EventPatch) Apply(e Event) Event {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.ClearDate {
		e.Date = nil
	} else if p.Date != nil {
		d := *p.Date
		e.Date = &d
	}
	return e
}

// Validate checks the patch before it reaches storage.
func (p EventPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEventNameRequired
	}
	return nil
}

// EventSummary is an event with the counts shown on the dashboard list.
type EventSummary struct {
	Event
	CategoryCount    int
	ParticipantCount int
}
