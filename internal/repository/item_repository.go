package repository

import (
	"context"
	"database/sql"
	"time"
)

// Item represents a to-do entry persisted in the 'items' table. Every item
// belongs to exactly one user; all queries are scoped by user_id so that a
// caller can never read or mutate another user's rows.
type Item struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

// Create inserts a new item. On success the ID and timestamp fields are
// populated from the stored row.
func (r *ItemRepo) Create(ctx context.Context, it *Item) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO items (text, user_id) VALUES (?,?)",
		it.Text, it.UserID)
	if err != nil {
		return classify("item.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classify("item.create", err)
	}
	it.ID = uint64(id)

	// Follow-up SELECT to populate default columns (done, created_at, updated_at).
	err = r.DB.QueryRowContext(ctx,
		"SELECT text,done,user_id,created_at,updated_at FROM items WHERE id=?",
		it.ID).Scan(&it.Text, &it.Done, &it.UserID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return classify("item.create", err)
	}
	return nil
}

// GetByIDAndOwner fetches an item by id but only if it belongs to the
// specified user. A missing or foreign item surfaces as KindNotFound so
// that callers cannot distinguish the two cases.
func (r *ItemRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (*Item, error) {
	var it Item
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,text,done,user_id,created_at,updated_at FROM items WHERE id=? AND user_id=?",
		id, userID).Scan(&it.ID, &it.Text, &it.Done, &it.UserID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, classify("item.get", err)
	}
	return &it, nil
}

// ListByOwner returns all items for a user in insertion order.
func (r *ItemRepo) ListByOwner(ctx context.Context, userID uint64) ([]*Item, error) {
	const q = `SELECT id,text,done,user_id,created_at,updated_at
	           FROM items WHERE user_id=? ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, classify("item.list", err)
	}
	defer rows.Close()

	out := make([]*Item, 0)
	for rows.Next() {
		it := new(Item)
		if err := rows.Scan(&it.ID, &it.Text, &it.Done, &it.UserID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, classify("item.list", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("item.list", err)
	}
	return out, nil
}

// Update persists new text and completion state for an item owned by the
// given user. KindNotFound is returned when the item does not exist or is
// owned by someone else.
func (r *ItemRepo) Update(ctx context.Context, id, userID uint64, text string, done bool) (*Item, error) {
	const q = `UPDATE items
	           SET text = ?, done = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ?`
	if _, err := r.DB.ExecContext(ctx, q, text, done, id, userID); err != nil {
		return nil, classify("item.update", err)
	}
	// Re-read instead of trusting RowsAffected: MySQL reports zero affected
	// rows when the new values equal the old ones.
	return r.GetByIDAndOwner(ctx, id, userID)
}

// DeleteByIDAndOwner removes an item owned by the given user. Deleting a
// missing or foreign item surfaces as KindNotFound.
func (r *ItemRepo) DeleteByIDAndOwner(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM items WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return classify("item.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("item.delete")
	}
	return nil
}
