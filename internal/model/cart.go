package model

import "time"

// Cart entry kinds stored in cart_entries.kind. A PRODUCT entry is a
// staged purchase; a RENTAL entry additionally carries a date range.
const (
	CartKindProduct = "PRODUCT"
	CartKindRental  = "RENTAL"
)

// CartEntry is one staged line in a user's cart, keyed by
// (user_id, asset_id, kind). Entries are advisory: being in a cart
// never blocks stock for other users. StartDate and EndDate are nil
// for PRODUCT entries and set for RENTAL entries.
//
// Fields:
//
//	UserID    – owner of the cart.
//	AssetID   – asset being staged.
//	Kind      – PRODUCT or RENTAL.
//	Quantity  – number of units, always > 0.
//	StartDate – first rental day (RENTAL only).
//	EndDate   – day after the last rental day (RENTAL only).
//	AddedAt   – when the entry was first created.
type CartEntry struct {
	UserID    uint64     // cart_entries.user_id
	AssetID   uint64     // cart_entries.asset_id
	Kind      string     // cart_entries.kind
	Quantity  int        // cart_entries.quantity
	StartDate *time.Time // cart_entries.start_date (nullable)
	EndDate   *time.Time // cart_entries.end_date (nullable)
	AddedAt   time.Time  // cart_entries.added_at
}
