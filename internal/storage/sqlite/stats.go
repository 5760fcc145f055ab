package sqlite

import (
	"context"
	"fmt"

	"github.com/KpG782/qr-registration/internal/domain"
)

func (s *Store) ParticipantStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error) {
	db := s.db.WithContext(ctx)
	var total, checkedIn int64
	if err := db.Model(&participantRecord{}).Where("category_id = ?", categoryID).Count(&total).Error; err != nil {
		return domain.ParticipantStats{}, fmt.Errorf("count participants: %w", err)
	}
	err := db.Model(&participantRecord{}).
		Where("category_id = ? AND attendance_status = ?", categoryID, string(domain.AttendanceCheckedIn)).
		Count(&checkedIn).Error
	if err != nil {
		return domain.ParticipantStats{}, fmt.Errorf("count checked in: %w", err)
	}
	return domain.ParticipantStats{
		Total:     int(total),
		CheckedIn: int(checkedIn),
		Pending:   int(total - checkedIn),
	}, nil
}

func (s *Store) CountCategoriesByEvent(ctx context.Context, eventID string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&categoryRecord{}).Where("event_id = ?", eventID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return int(n), nil
}

func (s *Store) CountParticipantsByEvent(ctx context.Context, eventID string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&participantRecord{}).
		Joins("JOIN categories ON categories.id = participants.category_id").
		Where("categories.event_id = ?", eventID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return int(n), nil
}

func (s *Store) ListEventSummaries(ctx context.Context) ([]domain.EventSummary, error) {
	const query = `
SELECT e.id, e.name, e.description, e.date, e.created_at,
	COUNT(DISTINCT c.id) AS category_count,
	COUNT(p.id) AS participant_count
FROM events e
LEFT JOIN categories c ON c.event_id = e.id
LEFT JOIN participants p ON p.category_id = c.id
GROUP BY e.id, e.name, e.description, e.date, e.created_at
ORDER BY e.created_at DESC, e.id`
	var rows []eventSummaryRow
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list event summaries: %w", err)
	}
	summaries := make([]domain.EventSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.EventSummary{
			Event:            row.toEventRecord().toDomain(),
			CategoryCount:    row.CategoryCount,
			ParticipantCount: row.ParticipantCount,
		})
	}
	return summaries, nil
}

func (s *Store) Totals(ctx context.Context) (domain.Totals, error) {
	var row struct {
		Events       int
		Categories   int
		Participants int
		CheckedIn    int
	}
	const query = `
SELECT
	(SELECT COUNT(*) FROM events) AS events,
	(SELECT COUNT(*) FROM categories) AS categories,
	(SELECT COUNT(*) FROM participants) AS participants,
	(SELECT COUNT(*) FROM participants WHERE attendance_status = 'checked_in') AS checked_in`
	if err := s.db.WithContext(ctx).Raw(query).Scan(&row).Error; err != nil {
		return domain.Totals{}, fmt.Errorf("totals: %w", err)
	}
	return domain.Totals{
		Events:       row.Events,
		Categories:   row.Categories,
		Participants: row.Participants,
		CheckedIn:    row.CheckedIn,
	}, nil
}
