package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/srvk/hardware-rental/internal/model"
)

// CartRepo provides access to the cart_entries table, the staging
// area for purchases and rentals. Entries are keyed by
// (user_id, asset_id, kind) and are advisory only: nothing here ever
// moves stock. One table holds both kinds; product upserts
// accumulate quantity while rental upserts replace quantity and
// dates, matching how users actually revise the two.
type CartRepo struct{ db *sql.DB }

// NewCartRepo returns a new CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// UpsertProduct stages qty more units of an asset for purchase.
// Repeated calls add up.
func (r *CartRepo) UpsertProduct(ctx context.Context, userID, assetID uint64, qty int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_entries (user_id, asset_id, kind, quantity)
         VALUES (?,?,?,?)
         ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, assetID, model.CartKindProduct, qty)
	return err
}

// UpsertRental stages a rental of an asset over [start, end).
// Repeated calls replace the previous quantity and dates rather
// than accumulate, since a revised rental supersedes the old plan.
func (r *CartRepo) UpsertRental(ctx context.Context, userID, assetID uint64, qty int, start, end time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_entries (user_id, asset_id, kind, quantity, start_date, end_date)
         VALUES (?,?,?,?,?,?)
         ON DUPLICATE KEY UPDATE quantity = VALUES(quantity),
                                 start_date = VALUES(start_date),
                                 end_date = VALUES(end_date)`,
		userID, assetID, model.CartKindRental, qty, start, end)
	return err
}

// ListByUser returns every cart entry of a user, products first,
// oldest first within a kind, for stable cart rendering.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]model.CartEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, asset_id, kind, quantity, start_date, end_date, added_at
         FROM cart_entries WHERE user_id = ?
         ORDER BY kind, added_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CartEntry, 0)
	for rows.Next() {
		var e model.CartEntry
		var start, end sql.NullTime
		if err := rows.Scan(&e.UserID, &e.AssetID, &e.Kind, &e.Quantity, &start, &end, &e.AddedAt); err != nil {
			return nil, err
		}
		if start.Valid {
			t := start.Time.UTC()
			e.StartDate = &t
		}
		if end.Valid {
			t := end.Time.UTC()
			e.EndDate = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEntryTx fetches one entry by its full key inside a transaction.
// Checkout uses it to resolve selections; a missing entry is
// ErrCartEntryNotFound.
func (r *CartRepo) GetEntryTx(ctx context.Context, tx *sql.Tx, userID, assetID uint64, kind string) (model.CartEntry, error) {
	var e model.CartEntry
	var start, end sql.NullTime
	err := tx.QueryRowContext(ctx,
		`SELECT user_id, asset_id, kind, quantity, start_date, end_date, added_at
         FROM cart_entries WHERE user_id = ? AND asset_id = ? AND kind = ?`,
		userID, assetID, kind).Scan(&e.UserID, &e.AssetID, &e.Kind, &e.Quantity, &start, &end, &e.AddedAt)
	if err == sql.ErrNoRows {
		return e, ErrCartEntryNotFound
	}
	if err != nil {
		return e, err
	}
	if start.Valid {
		t := start.Time.UTC()
		e.StartDate = &t
	}
	if end.Valid {
		t := end.Time.UTC()
		e.EndDate = &t
	}
	return e, nil
}

// Remove deletes one entry by key. Removing an absent entry is a
// deliberate no-op so clients can retry freely.
func (r *CartRepo) Remove(ctx context.Context, userID, assetID uint64, kind string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_entries WHERE user_id = ? AND asset_id = ? AND kind = ?`,
		userID, assetID, kind)
	return err
}

// RemoveEntriesTx deletes the checked-out entries inside the
// checkout transaction so a rollback restores the cart too.
func (r *CartRepo) RemoveEntriesTx(ctx context.Context, tx *sql.Tx, userID uint64, kind string, assetIDs []uint64) error {
	for _, id := range assetIDs {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_entries WHERE user_id = ? AND asset_id = ? AND kind = ?`,
			userID, id, kind); err != nil {
			return err
		}
	}
	return nil
}
