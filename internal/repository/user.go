package repository

import (
	"context"

	"github.com/Crimson25/zulip/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID looks a user up by primary key. Returns (nil, nil) when the user
// does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.UserProfile, error) {
	u := &model.UserProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, realm_id, email, full_name, is_active, recipient_id, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.RealmID, &u.Email, &u.FullName, &u.IsActive, &u.RecipientID, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByIDInRealm looks a user up within a realm. Returns (nil, nil) when no
// such user exists in that realm.
func (r *UserRepository) GetByIDInRealm(ctx context.Context, id, realmID int64) (*model.UserProfile, error) {
	u := &model.UserProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, realm_id, email, full_name, is_active, recipient_id, created_at
		FROM users WHERE id = $1 AND realm_id = $2
	`, id, realmID).Scan(&u.ID, &u.RealmID, &u.Email, &u.FullName, &u.IsActive, &u.RecipientID, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
