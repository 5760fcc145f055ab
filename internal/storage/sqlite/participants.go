package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KpG782/qr-registration/internal/domain"
	"gorm.io/gorm"
)

func (s *Store) CreateParticipant(ctx context.Context, p domain.Participant) error {
	rec := newParticipantRecord(p)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (s *Store) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	return s.getParticipant(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *Store) FindParticipantByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error) {
	return s.getParticipant(s.db.WithContext(ctx).Where("category_id = ? AND email = ?", categoryID, email))
}

func (s *Store) getParticipant(q *gorm.DB) (*domain.Participant, error) {
	var rec participantRecord
	if err := q.Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	p := rec.toDomain()
	return &p, nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	return s.listParticipants(s.db.WithContext(ctx))
}

func (s *Store) ListParticipantsByCategory(ctx context.Context, categoryID string) ([]domain.Participant, error) {
	return s.listParticipants(s.db.WithContext(ctx).Where("category_id = ?", categoryID))
}

func (s *Store) listParticipants(q *gorm.DB) ([]domain.Participant, error) {
	var recs []participantRecord
	if err := q.Order("created_at DESC, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	participants := make([]domain.Participant, 0, len(recs))
	for _, rec := range recs {
		participants = append(participants, rec.toDomain())
	}
	return participants, nil
}

func (s *Store) UpdateParticipant(ctx context.Context, id string, patch domain.ParticipantPatch) (*domain.Participant, error) {
	var updated *domain.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec participantRecord
		if err := tx.Take(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		next := patch.Apply(rec.toDomain())
		err := tx.Model(&participantRecord{}).Where("id = ?", id).Updates(map[string]any{
			"email":              next.Email,
			"full_name":          next.FullName,
			"school_institution": nullString(next.SchoolInstitution),
			"attendance_status":  string(next.Status),
			"checked_in_at":      toNullEpoch(next.CheckedInAt),
			"winner_rank":        next.WinnerRank,
		}).Error
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateEmail
			}
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("update participant: %w", err)
	}
	return updated, nil
}

func (s *Store) CheckInParticipant(ctx context.Context, id string, at time.Time) (*domain.Participant, error) {
	res := s.db.WithContext(ctx).Model(&participantRecord{}).Where("id = ?", id).Updates(map[string]any{
		"attendance_status": string(domain.AttendanceCheckedIn),
		"checked_in_at":     at.Unix(),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("check in participant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetParticipant(ctx, id)
}

func (s *Store) CheckInIfPending(ctx context.Context, id string, at time.Time) (*domain.Participant, bool, error) {
	res := s.db.WithContext(ctx).Model(&participantRecord{}).
		Where("id = ? AND attendance_status = ?", id, string(domain.AttendancePending)).
		Updates(map[string]any{
			"attendance_status": string(domain.AttendanceCheckedIn),
			"checked_in_at":     at.Unix(),
		})
	if res.Error != nil {
		return nil, false, fmt.Errorf("check in pending participant: %w", res.Error)
	}
	p, err := s.GetParticipant(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, res.RowsAffected > 0, nil
}

func (s *Store) DeleteParticipant(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&participantRecord{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("delete participant: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
