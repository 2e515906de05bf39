package repository

import (
	"context"

	"github.com/Crimson25/zulip/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StreamRepository struct {
	pool *pgxpool.Pool
}

func NewStreamRepository(pool *pgxpool.Pool) *StreamRepository {
	return &StreamRepository{pool: pool}
}

// GetByIDInRealm looks a stream up within a realm. Returns (nil, nil) when
// no such stream exists there.
func (r *StreamRepository) GetByIDInRealm(ctx context.Context, id, realmID int64) (*model.Stream, error) {
	s := &model.Stream{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, realm_id, name, invite_only, recipient_id
		FROM streams WHERE id = $1 AND realm_id = $2
	`, id, realmID).Scan(&s.ID, &s.RealmID, &s.Name, &s.InviteOnly, &s.RecipientID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IsSubscribed reports whether the user holds an active subscription to the
// given recipient.
func (r *StreamRepository) IsSubscribed(ctx context.Context, userID, recipientID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1 AND recipient_id = $2 AND active
		)
	`, userID, recipientID).Scan(&exists)
	return exists, err
}
