package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/KpG782/qr-registration/internal/domain"
	"gorm.io/gorm"
)

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) error {
	rec := newEventRecord(event)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var rec eventRecord
	err := s.db.WithContext(ctx).Take(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	event := rec.toDomain()
	return &event, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var recs []eventRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]domain.Event, 0, len(recs))
	for _, rec := range recs {
		events = append(events, rec.toDomain())
	}
	return events, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	var updated *domain.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec eventRecord
		if err := tx.Take(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		next := patch.Apply(rec.toDomain())
		err := tx.Model(&eventRecord{}).Where("id = ?", id).Updates(map[string]any{
			"name":        next.Name,
			"description": nullString(next.Description),
			"date":        toNullEpoch(next.Date),
		}).Error
		if err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&eventRecord{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("delete event: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
