package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/srvk/hardware-rental/internal/model"
)

// ReservationRepo provides CRUD operations for reservations, the
// committed bookings of assets over date ranges. Date columns are
// DATE values interpreted in UTC. Capacity-sensitive reads have Tx
// variants so they run under the same transaction (and row locks)
// as the stock writes they justify.
type ReservationRepo struct{ db *sql.DB }

// NewReservationRepo returns a new ReservationRepo bound to the
// given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, asset_id, quantity, start_date, end_date,
       status, total_cents, order_id, created_at, updated_at`

func scanReservation(scan func(dest ...interface{}) error) (model.Reservation, error) {
	var res model.Reservation
	var orderID sql.NullInt64
	err := scan(&res.ID, &res.UserID, &res.AssetID, &res.Quantity,
		&res.StartDate, &res.EndDate, &res.Status, &res.TotalCents,
		&orderID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return res, err
	}
	if orderID.Valid {
		oid := uint64(orderID.Int64)
		res.OrderID = &oid
	}
	res.StartDate = res.StartDate.UTC()
	res.EndDate = res.EndDate.UTC()
	return res, nil
}

// CreateTx inserts a reservation within the scope of an existing
// transaction and populates the generated id. The caller must
// commit or roll back. Status should be ACTIVE at creation.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	var orderID interface{}
	if res.OrderID != nil {
		orderID = *res.OrderID
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, asset_id, quantity, start_date, end_date, status, total_cents, order_id)
         VALUES (?,?,?,?,?,?,?,?)`,
		res.UserID, res.AssetID, res.Quantity, res.StartDate, res.EndDate,
		res.Status, res.TotalCents, orderID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// SumOverlappingQtyTx returns the summed quantity of ACTIVE
// reservations for an asset whose inclusive date interval intersects
// [start, end]; excludeID skips one reservation (pass 0 for new
// bookings). The matched rows are locked FOR UPDATE so no competing
// transaction can slip a new overlapping reservation in between
// this read and the caller's write.
func (r *ReservationRepo) SumOverlappingQtyTx(ctx context.Context, tx *sql.Tx, assetID uint64, start, end time.Time, excludeID uint64) (int, error) {
	const q = `SELECT COALESCE(SUM(quantity), 0)
               FROM reservations
               WHERE asset_id = ? AND status = ?
                 AND start_date <= ? AND end_date >= ?
                 AND id <> ?
               FOR UPDATE`
	var total int
	err := tx.QueryRowContext(ctx, q, assetID, model.ReservationActive, end, start, excludeID).Scan(&total)
	return total, err
}

// GetByID fetches a single reservation, mapping a missing row to
// ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return res, ErrReservationNotFound
	}
	return res, err
}

// GetForUpdateTx fetches a reservation under an exclusive row lock
// inside the given transaction, for lifecycle edits.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	res, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? FOR UPDATE`, id).Scan)
	if err == sql.ErrNoRows {
		return res, ErrReservationNotFound
	}
	return res, err
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

// ListByAsset returns every reservation of an asset, newest first.
// Admin fleet oversight uses it.
func (r *ReservationRepo) ListByAsset(ctx context.Context, assetID uint64) ([]model.Reservation, error) {
	return r.list(ctx, `WHERE asset_id = ?`, assetID)
}

// ListByOrderIDs returns reservations linked to any of the given
// orders, used to assemble order history responses in one query.
func (r *ReservationRepo) ListByOrderIDs(ctx context.Context, orderIDs []uint64) ([]model.Reservation, error) {
	if len(orderIDs) == 0 {
		return []model.Reservation{}, nil
	}
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE order_id IN (`
	args := make([]interface{}, 0, len(orderIDs))
	for i, id := range orderIDs {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += `) ORDER BY order_id, id`
	return r.query(ctx, q, args...)
}

func (r *ReservationRepo) list(ctx context.Context, where string, arg interface{}) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations ` + where + ` ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q, arg)
}

func (r *ReservationRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// UpdateDatesTx persists new dates and the recomputed cost within a
// transaction. The capacity re-check must already have passed.
func (r *ReservationRepo) UpdateDatesTx(ctx context.Context, tx *sql.Tx, id uint64, start, end time.Time, totalCents int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET start_date = ?, end_date = ?, total_cents = ? WHERE id = ?`,
		start, end, totalCents, id)
	return err
}

// UpdateStatusTx persists a status transition within a transaction.
// The compensating stock move happens in the same transaction via
// the asset repository.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	return err
}

// DeleteTx removes a reservation within a transaction. Compensation
// for an ACTIVE reservation is the caller's responsibility and must
// precede the delete inside the same transaction.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}
