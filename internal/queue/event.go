// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedItem is one line of a placed order as carried on the wire.
type OrderPlacedItem struct {
	AssetID   uint64 `json:"asset_id"`
	AssetName string `json:"asset_name"`
	Kind      string `json:"kind"`
	Quantity  int    `json:"quantity"`
	Days      int    `json:"days,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	LineCents int64  `json:"line_total_cents"`
}

// OrderPlacedEvent is published after a checkout transaction commits.
// It carries enough detail for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID       uint64            `json:"order_id"`
	UserID        uint64            `json:"user_id"`
	PaymentMethod string            `json:"payment_method"`
	PaymentStatus string            `json:"payment_status"`
	TransactionID string            `json:"transaction_id,omitempty"`
	TotalCents    int64             `json:"total_cents"`
	Items         []OrderPlacedItem `json:"items"`
	PlacedAt      string            `json:"placed_at"`
}
