package repository

import (
	"context"
	"fmt"

	"github.com/Crimson25/zulip/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RecipientRepository struct {
	pool *pgxpool.Pool
}

func NewRecipientRepository(pool *pgxpool.Pool) *RecipientRepository {
	return &RecipientRepository{pool: pool}
}

// GetOrCreateHuddle returns the group recipient for the given member set,
// creating the huddle, its recipient row, and the membership subscriptions
// in one transaction when it does not exist yet. hash identifies the member
// set; memberIDs must be the full member list including the sender.
func (r *RecipientRepository) GetOrCreateHuddle(ctx context.Context, hash string, memberIDs []int64) (*model.Recipient, error) {
	rec, err := r.getHuddleByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var huddleID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO huddles (huddle_hash) VALUES ($1)
		ON CONFLICT (huddle_hash) DO NOTHING
		RETURNING id
	`, hash).Scan(&huddleID)
	if err == pgx.ErrNoRows {
		// A concurrent request created the same huddle; its rows become
		// visible once that transaction commits.
		rec, err = r.getHuddleByHash(ctx, hash)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("huddle %s not visible after insert conflict", hash)
		}
		return rec, nil
	}
	if err != nil {
		return nil, err
	}

	rec = &model.Recipient{Type: model.RecipientGroup, TypeID: huddleID}
	err = tx.QueryRow(ctx, `
		INSERT INTO recipients (type, type_id) VALUES ($1, $2) RETURNING id
	`, model.RecipientGroup, huddleID).Scan(&rec.ID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE huddles SET recipient_id = $2 WHERE id = $1`, huddleID, rec.ID); err != nil {
		return nil, err
	}

	for _, uid := range memberIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO subscriptions (user_id, recipient_id) VALUES ($1, $2)
		`, uid, rec.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *RecipientRepository) getHuddleByHash(ctx context.Context, hash string) (*model.Recipient, error) {
	rec := &model.Recipient{}
	err := r.pool.QueryRow(ctx, `
		SELECT r.id, r.type, r.type_id
		FROM huddles h
		JOIN recipients r ON h.recipient_id = r.id
		WHERE h.huddle_hash = $1
	`, hash).Scan(&rec.ID, &rec.Type, &rec.TypeID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// MembersByRecipient returns the user IDs subscribed to a recipient in
// ascending order.
func (r *RecipientRepository) MembersByRecipient(ctx context.Context, recipientID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM subscriptions
		WHERE recipient_id = $1 AND active
		ORDER BY user_id
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
