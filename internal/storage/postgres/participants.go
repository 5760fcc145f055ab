package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/jackc/pgx/v5"
)

const participantColumns = `id, category_id, email, full_name, school_institution,
	attendance_status, checked_in_at, winner_rank, created_at`

func (s *Store) CreateParticipant(ctx context.Context, p domain.Participant) error {
	const stmt = `
INSERT INTO participants (id, category_id, email, full_name, school_institution,
	attendance_status, checked_in_at, winner_rank, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.exec(ctx, stmt,
		p.ID, p.CategoryID, p.Email, p.FullName, nullString(p.SchoolInstitution),
		string(p.Status), toNullEpoch(p.CheckedInAt), p.WinnerRank, toEpoch(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (s *Store) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return s.getParticipant(ctx, query, id)
}

func (s *Store) FindParticipantByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE category_id = $1 AND email = $2`
	return s.getParticipant(ctx, query, categoryID, email)
}

func (s *Store) getParticipant(ctx context.Context, query string, args ...any) (*domain.Participant, error) {
	p, err := scanParticipant(s.queryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return &p, nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY created_at DESC, id`
	return s.listParticipants(ctx, query)
}

func (s *Store) ListParticipantsByCategory(ctx context.Context, categoryID string) ([]domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE category_id = $1 ORDER BY created_at DESC, id`
	if !validUUID(categoryID) {
		return []domain.Participant{}, nil
	}
	return s.listParticipants(ctx, query, categoryID)
}

func (s *Store) listParticipants(ctx context.Context, query string, args ...any) ([]domain.Participant, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]domain.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate participants: %w", rows.Err())
	}
	return participants, nil
}

func (s *Store) UpdateParticipant(ctx context.Context, id string, patch domain.ParticipantPatch) (*domain.Participant, error) {
	if !validUUID(id) {
		return nil, nil
	}
	var updated *domain.Participant
	err := s.inTx(ctx, func(txCtx context.Context) error {
		query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1 FOR UPDATE`
		current, err := scanParticipant(s.queryRow(txCtx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
				return nil
			}
			return fmt.Errorf("get participant for update: %w", err)
		}

		next := patch.Apply(current)
		const stmt = `
UPDATE participants
SET email = $2, full_name = $3, school_institution = $4,
	attendance_status = $5, checked_in_at = $6, winner_rank = $7
WHERE id = $1`
		_, err = s.exec(txCtx, stmt, id, next.Email, next.FullName, nullString(next.SchoolInstitution),
			string(next.Status), toNullEpoch(next.CheckedInAt), next.WinnerRank)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("update participant: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) CheckInParticipant(ctx context.Context, id string, at time.Time) (*domain.Participant, error) {
	query := `
UPDATE participants
SET attendance_status = 'checked_in', checked_in_at = $2
WHERE id = $1
RETURNING ` + participantColumns
	p, err := scanParticipant(s.queryRow(ctx, query, id, toEpoch(at)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("check in participant: %w", err)
	}
	return &p, nil
}

func (s *Store) CheckInIfPending(ctx context.Context, id string, at time.Time) (*domain.Participant, bool, error) {
	query := `
UPDATE participants
SET attendance_status = 'checked_in', checked_in_at = $2
WHERE id = $1 AND attendance_status = 'pending'
RETURNING ` + participantColumns
	p, err := scanParticipant(s.queryRow(ctx, query, id, toEpoch(at)))
	if err == nil {
		return &p, true, nil
	}
	if isInvalidUUID(err) {
		return nil, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("check in pending participant: %w", err)
	}

	existing, err := s.GetParticipant(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Store) DeleteParticipant(ctx context.Context, id string) (bool, error) {
	tag, err := s.exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete participant: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanParticipant(row pgx.Row) (domain.Participant, error) {
	var (
		p           domain.Participant
		school      *string
		status      string
		checkedInAt *int64
		createdAt   int64
	)
	err := row.Scan(&p.ID, &p.CategoryID, &p.Email, &p.FullName, &school,
		&status, &checkedInAt, &p.WinnerRank, &createdAt)
	if err != nil {
		return domain.Participant{}, err
	}
	p.SchoolInstitution = derefString(school)
	p.Status = domain.AttendanceStatus(status)
	p.CheckedInAt = fromNullEpoch(checkedInAt)
	p.CreatedAt = fromEpoch(createdAt)
	return p, nil
}
