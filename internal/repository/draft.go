package repository

import (
	"context"

	"github.com/Crimson25/zulip/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DraftRepository struct {
	pool *pgxpool.Pool
}

func NewDraftRepository(pool *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{pool: pool}
}

// CreateBatch inserts all drafts inside a single transaction and returns the
// generated IDs in input order. Any failure rolls the whole batch back.
func (r *DraftRepository) CreateBatch(ctx context.Context, drafts []*model.Draft) ([]int64, error) {
	if len(drafts) == 0 {
		return []int64{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, 0, len(drafts))
	for _, d := range drafts {
		var recipientID *int64
		if d.Recipient != nil {
			recipientID = &d.Recipient.ID
		}
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO drafts (user_id, recipient_id, topic, content, last_edit_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, d.UserID, recipientID, d.Topic, d.Content, d.LastEditTime).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByOwner returns the user's drafts with their recipients joined in,
// oldest edit first.
func (r *DraftRepository) ListByOwner(ctx context.Context, userID int64) ([]*model.Draft, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.user_id, d.topic, d.content, d.last_edit_time,
		       r.id, r.type, r.type_id
		FROM drafts d
		LEFT JOIN recipients r ON d.recipient_id = r.id
		WHERE d.user_id = $1
		ORDER BY d.last_edit_time
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*model.Draft
	for rows.Next() {
		d := &model.Draft{}
		var recID, recTypeID *int64
		var recType *int
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Topic, &d.Content, &d.LastEditTime,
			&recID, &recType, &recTypeID,
		); err != nil {
			return nil, err
		}
		if recID != nil {
			d.Recipient = &model.Recipient{ID: *recID, Type: *recType, TypeID: *recTypeID}
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (r *DraftRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM drafts`).Scan(&count)
	return count, err
}
