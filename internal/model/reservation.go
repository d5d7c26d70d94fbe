package model

import "time"

// Reservation statuses stored in reservations.status. A reservation
// starts ACTIVE and ends RETURNED; there are no automatic
// transitions.
const (
	ReservationActive   = "ACTIVE"
	ReservationReturned = "RETURNED"
)

// Reservation is a committed booking of an asset for a quantity over
// a calendar date range. It references the asset and user by id only
// and is linked loosely to the order that created it (nil for direct
// bookings). A reservation outlives its order so that returns and
// cancellations can be bookkept independently.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – user who booked.
//	AssetID    – asset booked.
//	Quantity   – units booked, always > 0.
//	StartDate  – first rental day (inclusive).
//	EndDate    – end of the range (exclusive for pricing, inclusive
//	             for overlap checks).
//	Status     – ACTIVE or RETURNED.
//	TotalCents – price charged for the whole rental.
//	OrderID    – order that created the reservation (nullable).
//	CreatedAt  – timestamp of creation.
//	UpdatedAt  – timestamp of last update.
type Reservation struct {
	ID         uint64    // reservations.id
	UserID     uint64    // reservations.user_id
	AssetID    uint64    // reservations.asset_id
	Quantity   int       // reservations.quantity
	StartDate  time.Time // reservations.start_date
	EndDate    time.Time // reservations.end_date
	Status     string    // reservations.status
	TotalCents int64     // reservations.total_cents
	OrderID    *uint64   // reservations.order_id (nullable)
	CreatedAt  time.Time // reservations.created_at
	UpdatedAt  time.Time // reservations.updated_at
}
