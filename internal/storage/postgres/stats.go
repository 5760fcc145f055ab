package postgres

import (
	"context"
	"fmt"

	"github.com/KpG782/qr-registration/internal/domain"
)

func (s *Store) ParticipantStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error) {
	const query = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE attendance_status = 'checked_in')
FROM participants
WHERE category_id = $1`
	var stats domain.ParticipantStats
	if err := s.queryRow(ctx, query, categoryID).Scan(&stats.Total, &stats.CheckedIn); err != nil {
		if isInvalidUUID(err) {
			return domain.ParticipantStats{}, nil
		}
		return domain.ParticipantStats{}, fmt.Errorf("participant stats: %w", err)
	}
	stats.Pending = stats.Total - stats.CheckedIn
	return stats, nil
}

func (s *Store) CountCategoriesByEvent(ctx context.Context, eventID string) (int, error) {
	const query = `SELECT COUNT(*) FROM categories WHERE event_id = $1`
	var n int
	if err := s.queryRow(ctx, query, eventID).Scan(&n); err != nil {
		if isInvalidUUID(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (s *Store) CountParticipantsByEvent(ctx context.Context, eventID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM participants p
JOIN categories c ON c.id = p.category_id
WHERE c.event_id = $1`
	var n int
	if err := s.queryRow(ctx, query, eventID).Scan(&n); err != nil {
		if isInvalidUUID(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

func (s *Store) ListEventSummaries(ctx context.Context) ([]domain.EventSummary, error) {
	const query = `
SELECT e.id, e.name, e.description, e.date, e.created_at,
	COUNT(DISTINCT c.id),
	COUNT(p.id)
FROM events e
LEFT JOIN categories c ON c.event_id = e.id
LEFT JOIN participants p ON p.category_id = c.id
GROUP BY e.id, e.name, e.description, e.date, e.created_at
ORDER BY e.created_at DESC, e.id`
	rows, err := s.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list event summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.EventSummary, 0)
	for rows.Next() {
		var (
			sum         domain.EventSummary
			description *string
			date        *int64
			createdAt   int64
		)
		err := rows.Scan(&sum.ID, &sum.Name, &description, &date, &createdAt, &sum.CategoryCount, &sum.ParticipantCount)
		if err != nil {
			return nil, fmt.Errorf("scan event summary: %w", err)
		}
		sum.Description = derefString(description)
		sum.Date = fromNullEpoch(date)
		sum.CreatedAt = fromEpoch(createdAt)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event summaries: %w", err)
	}
	return summaries, nil
}

func (s *Store) Totals(ctx context.Context) (domain.Totals, error) {
	const query = `
SELECT
	(SELECT COUNT(*) FROM events),
	(SELECT COUNT(*) FROM categories),
	(SELECT COUNT(*) FROM participants),
	(SELECT COUNT(*) FROM participants WHERE attendance_status = 'checked_in')`
	var t domain.Totals
	if err := s.queryRow(ctx, query).Scan(&t.Events, &t.Categories, &t.Participants, &t.CheckedIn); err != nil {
		return domain.Totals{}, fmt.Errorf("totals: %w", err)
	}
	return t, nil
}
