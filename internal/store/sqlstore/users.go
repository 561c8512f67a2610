package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

type userRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	PhotoURL  string    `db:"photo_url"`
	Verified  bool      `db:"verified"`
	CreatedAt time.Time `db:"created_at"`
}

func (r userRow) model() models.User {
	return models.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		Role:      r.Role,
		PhotoURL:  r.PhotoURL,
		Verified:  r.Verified,
		CreatedAt: r.CreatedAt,
	}
}

const userColumns = `id, email, name, role, photo_url, verified, created_at`

type userRepo struct {
	db *sqlx.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	// 1. --- Dedup Check ---
	// Check and insert are separate round trips; the UNIQUE index on email
	// catches a concurrent signup that slips between them.
	_, err := r.FindByEmail(ctx, u.Email)
	if err == nil {
		return store.ErrAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	// 2. --- Insert ---
	id := uuid.NewString()
	query := r.db.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query, id, u.Email, u.Name, u.Role, u.PhotoURL, u.Verified, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	u := row.model()
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	var w where
	if f.Role != "" {
		w.add("role = ?", f.Role)
	}
	query, args := limit(`SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY created_at ASC`, w.args, f.Limit)

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.model())
	}
	return users, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.RowsAffected()
}
