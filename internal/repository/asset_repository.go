package repository

import (
	"context"
	"database/sql"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
)

// AssetRepo provides access to the assets table and implements the
// inventory ledger. Stock mutations are conditional single
// statements so a capacity check and its decrement can never be
// interleaved by another transaction: the UPDATE itself refuses to
// go below zero, and callers that need check-then-write semantics
// lock the row first with GetForUpdateTx.
type AssetRepo struct{ db *sql.DB }

// NewAssetRepo returns a new AssetRepo bound to the given database.
func NewAssetRepo(db *sql.DB) *AssetRepo { return &AssetRepo{db: db} }

// DB exposes the underlying handle so handlers can begin
// transactions spanning several repositories.
func (r *AssetRepo) DB() *sql.DB { return r.db }

const assetColumns = `id, name, description, category, image_url,
       unit_price_cents, daily_rate_cents, total_stock, available_stock,
       created_at, updated_at`

func scanAsset(row *sql.Row) (model.Asset, error) {
	var a model.Asset
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.ImageURL,
		&a.UnitPriceCents, &a.DailyRateCents, &a.TotalStock, &a.AvailableStock,
		&a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrAssetNotFound
	}
	return a, err
}

// Create inserts a new asset. Available stock starts equal to total
// stock: a brand-new fleet has nothing committed.
func (r *AssetRepo) Create(ctx context.Context, a *model.Asset) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (name, description, category, image_url,
                unit_price_cents, daily_rate_cents, total_stock, available_stock)
         VALUES (?,?,?,?,?,?,?,?)`,
		a.Name, a.Description, a.Category, a.ImageURL,
		a.UnitPriceCents, a.DailyRateCents, a.TotalStock, a.TotalStock)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.AvailableStock = a.TotalStock
	return nil
}

// GetByID fetches a single asset.
func (r *AssetRepo) GetByID(ctx context.Context, id uint64) (model.Asset, error) {
	return scanAsset(r.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id))
}

// GetForUpdateTx fetches an asset under an exclusive row lock inside
// the given transaction. All of checkout's reads for an asset happen
// behind this lock so the capacity check and the stock write form
// one atomic unit.
func (r *AssetRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Asset, error) {
	return scanAsset(tx.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ? FOR UPDATE`, id))
}

// List returns the catalog ordered by category then name. An empty
// category matches everything.
func (r *AssetRepo) List(ctx context.Context, category string) ([]model.Asset, error) {
	q := `SELECT ` + assetColumns + ` FROM assets`
	args := []interface{}{}
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Asset, 0)
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.ImageURL,
			&a.UnitPriceCents, &a.DailyRateCents, &a.TotalStock, &a.AvailableStock,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateDetails rewrites the descriptive fields of an asset without
// touching stock. Stock changes go through AdjustTotalStock.
func (r *AssetRepo) UpdateDetails(ctx context.Context, a model.Asset) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assets SET name=?, description=?, category=?, image_url=?,
                unit_price_cents=?, daily_rate_cents=?
         WHERE id=?`,
		a.Name, a.Description, a.Category, a.ImageURL,
		a.UnitPriceCents, a.DailyRateCents, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 for a no-change update, so confirm
		// the row really is missing before reporting not found.
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// AdjustTotalStock changes an asset's fleet size. The available
// counter shifts by the same delta so committed units stay
// committed; shrinking the fleet below what is currently out yields
// booking.ErrInvalidAdjustment and leaves the row untouched.
func (r *AssetRepo) AdjustTotalStock(ctx context.Context, id uint64, newTotal int) error {
	if newTotal < 0 {
		return booking.ErrInvalidAdjustment
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	a, err := r.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	newAvailable := a.AvailableStock + (newTotal - a.TotalStock)
	if newAvailable < 0 {
		return booking.ErrInvalidAdjustment
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE assets SET total_stock=?, available_stock=? WHERE id=?`,
		newTotal, newAvailable, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DecrementStockTx takes qty units out of the available pool with a
// conditional update. Zero rows affected means the stock ran out
// between the caller's check and now (or the caller never checked);
// either way the shortfall is reported with current counts and
// nothing is written.
func (r *AssetRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) error {
	if qty <= 0 {
		return booking.ErrInvalidQuantity
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE assets SET available_stock = available_stock - ?
         WHERE id = ? AND available_stock >= ?`, qty, id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var avail int
		if err := tx.QueryRowContext(ctx,
			`SELECT available_stock FROM assets WHERE id = ?`, id).Scan(&avail); err != nil {
			if err == sql.ErrNoRows {
				return ErrAssetNotFound
			}
			return err
		}
		return &booking.InsufficientStockError{AssetID: id, Available: avail, Requested: qty}
	}
	return nil
}

// DecrementStockClampedTx takes qty units out of the available pool,
// flooring at zero instead of failing. Rental lines use it: rental
// capacity is governed by the interval check over total stock, so a
// booking that check admitted must not be refused by the
// instantaneous counter. Disjoint date windows may each claim the
// full fleet. The caller holds the asset row lock, so existence has
// already been verified.
func (r *AssetRepo) DecrementStockClampedTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) error {
	if qty <= 0 {
		return booking.ErrInvalidQuantity
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE assets SET available_stock = GREATEST(0, available_stock - ?)
         WHERE id = ?`, qty, id)
	return err
}

// IncrementStockTx returns qty units to the available pool, capped
// at the fleet total so repeated compensations can never push
// availability past what is owned.
func (r *AssetRepo) IncrementStockTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) error {
	if qty <= 0 {
		return booking.ErrInvalidQuantity
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE assets SET available_stock = LEAST(total_stock, available_stock + ?)
         WHERE id = ?`, qty, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAssetNotFound
	}
	return nil
}

// Delete removes an asset that has no active reservations. Active
// bookings make the delete a conflict; the caller should return the
// fleet first.
func (r *AssetRepo) Delete(ctx context.Context, id uint64) error {
	var active int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE asset_id = ? AND status = ?`,
		id, model.ReservationActive).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAssetNotFound
	}
	return nil
}
