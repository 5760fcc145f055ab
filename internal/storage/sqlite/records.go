package sqlite

import (
	"time"

	"github.com/KpG782/qr-registration/internal/domain"
)

type eventRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description *string
	Date        *int64
	CreatedAt   int64 `gorm:"autoCreateTime:false"`
}

func (eventRecord) TableName() string { return "events" }

func newEventRecord(e domain.Event) eventRecord {
	return eventRecord{
		ID:          e.ID,
		Name:        e.Name,
		Description: nullString(e.Description),
		Date:        toNullEpoch(e.Date),
		CreatedAt:   e.CreatedAt.Unix(),
	}
}

func (r eventRecord) toDomain() domain.Event {
	return domain.Event{
		ID:          r.ID,
		Name:        r.Name,
		Description: derefString(r.Description),
		Date:        fromNullEpoch(r.Date),
		CreatedAt:   time.Unix(r.CreatedAt, 0).UTC(),
	}
}

// eventSummaryRow is one row of the event listing with its counts.
type eventSummaryRow struct {
	ID               string
	Name             string
	Description      *string
	Date             *int64
	CreatedAt        int64
	CategoryCount    int
	ParticipantCount int
}

func (r eventSummaryRow) toEventRecord() eventRecord {
	return eventRecord{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Date:        r.Date,
		CreatedAt:   r.CreatedAt,
	}
}

type categoryRecord struct {
	ID        string `gorm:"primaryKey"`
	EventID   string
	Name      string
	CreatedAt int64 `gorm:"autoCreateTime:false"`
}

func (categoryRecord) TableName() string { return "categories" }

func newCategoryRecord(c domain.Category) categoryRecord {
	return categoryRecord{
		ID:        c.ID,
		EventID:   c.EventID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Unix(),
	}
}

func (r categoryRecord) toDomain() domain.Category {
	return domain.Category{
		ID:        r.ID,
		EventID:   r.EventID,
		Name:      r.Name,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
	}
}

type participantRecord struct {
	ID                string `gorm:"primaryKey"`
	CategoryID        string
	Email             string
	FullName          string
	SchoolInstitution *string
	AttendanceStatus  string
	CheckedInAt       *int64
	WinnerRank        *int
	CreatedAt         int64 `gorm:"autoCreateTime:false"`
}

func (participantRecord) TableName() string { return "participants" }

func newParticipantRecord(p domain.Participant) participantRecord {
	return participantRecord{
		ID:                p.ID,
		CategoryID:        p.CategoryID,
		Email:             p.Email,
		FullName:          p.FullName,
		SchoolInstitution: nullString(p.SchoolInstitution),
		AttendanceStatus:  string(p.Status),
		CheckedInAt:       toNullEpoch(p.CheckedInAt),
		WinnerRank:        p.WinnerRank,
		CreatedAt:         p.CreatedAt.Unix(),
	}
}

func (r participantRecord) toDomain() domain.Participant {
	return domain.Participant{
		ID:                r.ID,
		CategoryID:        r.CategoryID,
		Email:             r.Email,
		FullName:          r.FullName,
		SchoolInstitution: derefString(r.SchoolInstitution),
		Status:            domain.AttendanceStatus(r.AttendanceStatus),
		CheckedInAt:       fromNullEpoch(r.CheckedInAt),
		WinnerRank:        r.WinnerRank,
		CreatedAt:         time.Unix(r.CreatedAt, 0).UTC(),
	}
}
