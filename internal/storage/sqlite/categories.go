package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/KpG782/qr-registration/internal/domain"
	"gorm.io/gorm"
)

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) error {
	rec := newCategoryRecord(category)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var rec categoryRecord
	err := s.db.WithContext(ctx).Take(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	category := rec.toDomain()
	return &category, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.listCategories(s.db.WithContext(ctx))
}

func (s *Store) ListCategoriesByEvent(ctx context.Context, eventID string) ([]domain.Category, error) {
	return s.listCategories(s.db.WithContext(ctx).Where("event_id = ?", eventID))
}

func (s *Store) listCategories(q *gorm.DB) ([]domain.Category, error) {
	var recs []categoryRecord
	if err := q.Order("created_at DESC, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(recs))
	for _, rec := range recs {
		categories = append(categories, rec.toDomain())
	}
	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&categoryRecord{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetCategory(ctx, id)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&categoryRecord{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("delete category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
