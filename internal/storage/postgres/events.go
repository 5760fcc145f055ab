package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, name, description, date, created_at`

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, description, date, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := s.exec(ctx, stmt,
		event.ID, event.Name, nullString(event.Description), toNullEpoch(event.Date), toEpoch(event.CreatedAt))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(s.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id`
	rows, err := s.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	if !validUUID(id) {
		return nil, nil
	}
	var updated *domain.Event
	err := s.inTx(ctx, func(txCtx context.Context) error {
		query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
		current, err := scanEvent(s.queryRow(txCtx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
				return nil
			}
			return fmt.Errorf("get event for update: %w", err)
		}

		next := patch.Apply(current)
		const stmt = `
UPDATE events SET name = $2, description = $3, date = $4
WHERE id = $1`
		if _, err := s.exec(txCtx, stmt, id, next.Name, nullString(next.Description), toNullEpoch(next.Date)); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(txCtx context.Context) error {
		const deleteParticipants = `
DELETE FROM participants
WHERE category_id IN (SELECT id FROM categories WHERE event_id = $1)`
		if _, err := s.exec(txCtx, deleteParticipants, id); err != nil {
			return err
		}
		if _, err := s.exec(txCtx, `DELETE FROM categories WHERE event_id = $1`, id); err != nil {
			return err
		}
		tag, err := s.exec(txCtx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		if isInvalidUUID(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete event: %w", err)
	}
	return deleted, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		event       domain.Event
		description *string
		date        *int64
		createdAt   int64
	)
	if err := row.Scan(&event.ID, &event.Name, &description, &date, &createdAt); err != nil {
		return domain.Event{}, err
	}
	event.Description = derefString(description)
	event.Date = fromNullEpoch(date)
	event.CreatedAt = fromEpoch(createdAt)
	return event, nil
}
