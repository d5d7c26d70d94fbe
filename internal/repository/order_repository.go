package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/srvk/hardware-rental/internal/model"
)

// OrderRepo provides access to the orders and order_items tables.
// Orders are created inside the checkout transaction so a payment
// decline erases the header and its items along with every other
// side effect.
type OrderRepo struct{ db *sql.DB }

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts the order header within a transaction and
// populates the generated id, which reservations created in the same
// checkout link back to.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (user_id, total_cents, status, payment_method, payment_status, delivery_status)
         VALUES (?,?,?,?,?,?)`,
		o.UserID, o.TotalCents, o.Status, o.PaymentMethod, o.PaymentStatus, o.DeliveryStatus)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// CreateItemsBulkTx inserts all product line items in one statement.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	q := `INSERT INTO order_items (order_id, asset_id, quantity, unit_price_cents, subtotal_cents) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?, ?)"
		args = append(args, it.OrderID, it.AssetID, it.Quantity, it.UnitPriceCents, it.SubtotalCents)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// MarkPaidTx records a successful gateway charge on the order
// within the transaction: status and payment status flip to PAID and
// the transaction reference and payment time are stored.
func (r *OrderRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, orderID uint64, transactionID string, paidAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, payment_status = ?, transaction_id = ?, payment_date = ?
         WHERE id = ?`,
		model.OrderPaid, model.PaymentStatusPaid, transactionID, paidAt, orderID)
	return err
}

// OrderItemDetail is an order line joined with its asset name for
// display.
type OrderItemDetail struct {
	AssetID        uint64 `json:"asset_id"`
	AssetName      string `json:"asset_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// OrderDetail is an order header with its product lines, returned by
// ListByUser for order history.
type OrderDetail struct {
	ID             uint64            `json:"id"`
	TotalCents     int64             `json:"total_cents"`
	Status         string            `json:"status"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentStatus  string            `json:"payment_status"`
	TransactionID  *string           `json:"transaction_id,omitempty"`
	PaymentDate    *string           `json:"payment_date,omitempty"`
	DeliveryStatus string            `json:"delivery_status"`
	CreatedAt      string            `json:"created_at"`
	Items          []OrderItemDetail `json:"items"`
}

// ListByUser returns a user's orders newest first, each with its
// product line items. Headers are fetched first, then all items in
// one IN query, then stitched by order id.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderDetail, error) {
	const q = `SELECT id, total_cents, status, payment_method, payment_status,
                      transaction_id, payment_date, delivery_status, created_at
               FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]OrderDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d OrderDetail
		var txn sql.NullString
		var payDate sql.NullTime
		var createdAt time.Time
		if err := rows.Scan(&d.ID, &d.TotalCents, &d.Status, &d.PaymentMethod, &d.PaymentStatus,
			&txn, &payDate, &d.DeliveryStatus, &createdAt); err != nil {
			return nil, err
		}
		if txn.Valid {
			t := txn.String
			d.TransactionID = &t
		}
		if payDate.Valid {
			iso := payDate.Time.UTC().Format(time.RFC3339)
			d.PaymentDate = &iso
		}
		d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		d.Items = []OrderItemDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	itemQ := `SELECT oi.order_id, oi.asset_id, a.name, oi.quantity, oi.unit_price_cents, oi.subtotal_cents
              FROM order_items oi
              JOIN assets a ON a.id = oi.asset_id
              WHERE oi.order_id IN (`
	args := make([]interface{}, 0, len(details))
	for i, d := range details {
		if i > 0 {
			itemQ += ","
		}
		itemQ += "?"
		args = append(args, d.ID)
	}
	itemQ += `) ORDER BY oi.order_id, oi.id`
	irows, err := r.db.QueryContext(ctx, itemQ, args...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var oid uint64
		var it OrderItemDetail
		if err := irows.Scan(&oid, &it.AssetID, &it.AssetName, &it.Quantity, &it.UnitPriceCents, &it.SubtotalCents); err != nil {
			return nil, err
		}
		if idx, ok := index[oid]; ok {
			details[idx].Items = append(details[idx].Items, it)
		}
	}
	return details, irows.Err()
}

// OrderIDs extracts the ids of the given details, for follow-up
// queries such as linked reservations.
func OrderIDs(details []OrderDetail) []uint64 {
	ids := make([]uint64, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
	}
	return ids
}
