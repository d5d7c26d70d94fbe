package model

import "time"

// Order statuses stored in orders.status.
const (
	OrderCreated = "CREATED"
	OrderPaid    = "PAID"
)

// Payment methods accepted at checkout. CASH is collected on
// delivery and never reaches the payment gateway.
const (
	PaymentMethodCard = "CARD"
	PaymentMethodCash = "CASH"
)

// Payment statuses stored in orders.payment_status.
const (
	PaymentStatusPaid = "PAID"
	PaymentStatusCOD  = "COD"
)

// Delivery statuses stored in orders.delivery_status. Delivery
// tracking itself is handled outside this service; orders only carry
// the current state.
const (
	DeliveryPending   = "PENDING"
	DeliveryShipped   = "SHIPPED"
	DeliveryDelivered = "DELIVERED"
)

// Order is the durable record produced by a checkout. It owns its
// product line items; rentals created in the same checkout reference
// the order by id only.
//
// Fields:
//
//	ID             – primary key identifier.
//	UserID         – user who checked out.
//	TotalCents     – grand total across products and rentals.
//	Status         – CREATED or PAID.
//	PaymentMethod  – CARD, CASH, ...
//	PaymentStatus  – PAID or COD.
//	TransactionID  – gateway transaction reference (nullable).
//	PaymentDate    – when the gateway confirmed payment (nullable).
//	DeliveryStatus – current delivery state, defaults to PENDING.
//	CreatedAt      – timestamp of creation.
//	UpdatedAt      – timestamp of last update.
type Order struct {
	ID             uint64     // orders.id
	UserID         uint64     // orders.user_id
	TotalCents     int64      // orders.total_cents
	Status         string     // orders.status
	PaymentMethod  string     // orders.payment_method
	PaymentStatus  string     // orders.payment_status
	TransactionID  *string    // orders.transaction_id (nullable)
	PaymentDate    *time.Time // orders.payment_date (nullable)
	DeliveryStatus string     // orders.delivery_status
	CreatedAt      time.Time  // orders.created_at
	UpdatedAt      time.Time  // orders.updated_at
}

// OrderItem is one purchased product line belonging to an order.
//
// Fields:
//
//	ID             – primary key identifier.
//	OrderID        – owning order.
//	AssetID        – asset purchased.
//	Quantity       – units purchased.
//	UnitPriceCents – price per unit at checkout time.
//	SubtotalCents  – UnitPriceCents × Quantity.
type OrderItem struct {
	ID             uint64 // order_items.id
	OrderID        uint64 // order_items.order_id
	AssetID        uint64 // order_items.asset_id
	Quantity       int    // order_items.quantity
	UnitPriceCents int64  // order_items.unit_price_cents
	SubtotalCents  int64  // order_items.subtotal_cents
}
