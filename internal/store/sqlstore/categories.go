package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

type categoryRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type categoryRepo struct {
	db *sqlx.DB
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	id := uuid.NewString()
	query := r.db.Rebind(`INSERT INTO categories (id, name, slug, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, id, c.Name, c.Slug, c.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID = id
	return nil
}

func (r *categoryRepo) List(ctx context.Context, f store.CategoryFilter) ([]models.Category, error) {
	query, args := limit(`SELECT id, name, slug, created_at FROM categories ORDER BY created_at ASC`, nil, f.Limit)

	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, models.Category{
			ID:        row.ID,
			Name:      row.Name,
			Slug:      row.Slug,
			CreatedAt: row.CreatedAt,
		})
	}
	return categories, nil
}
