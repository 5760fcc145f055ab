package domain

import "time"

// Category groups participants inside an event; the QR check-in link targets one category.
type Category struct {
	ID        string
	EventID   string
	Name      string
	CreatedAt time.Time
}

type CategorySummary struct {
	Category
	ParticipantCount int
}
