package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, event_id, name, created_at`

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) error {
	const stmt = `
INSERT INTO categories (id, event_id, name, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := s.exec(ctx, stmt, category.ID, category.EventID, category.Name, toEpoch(category.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(s.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at DESC, id`
	return s.listCategories(ctx, query)
}

func (s *Store) ListCategoriesByEvent(ctx context.Context, eventID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE event_id = $1 ORDER BY created_at DESC, id`
	if !validUUID(eventID) {
		return []domain.Category{}, nil
	}
	return s.listCategories(ctx, query, eventID)
}

func (s *Store) listCategories(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate categories: %w", rows.Err())
	}
	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	query := `
UPDATE categories SET name = $2
WHERE id = $1
RETURNING ` + categoryColumns
	category, err := scanCategory(s.queryRow(ctx, query, id, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &category, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(txCtx context.Context) error {
		if _, err := s.exec(txCtx, `DELETE FROM participants WHERE category_id = $1`, id); err != nil {
			return err
		}
		tag, err := s.exec(txCtx, `DELETE FROM categories WHERE id = $1`, id)
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
		return false, fmt.Errorf("delete category: %w", err)
	}
	return deleted, nil
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var (
		category  domain.Category
		createdAt int64
	)
	if err := row.Scan(&category.ID, &category.EventID, &category.Name, &createdAt); err != nil {
		return domain.Category{}, err
	}
	category.CreatedAt = fromEpoch(createdAt)
	return category, nil
}
