package model

import "time"

// Asset is a physical item from the catalog that can be purchased
// outright or rented for a date range. It is the single source of
// truth for stock: AvailableStock tracks units not currently
// committed to an order or an active rental, while TotalStock is
// the size of the whole fleet. The invariant
// 0 <= AvailableStock <= TotalStock holds at all times.
//
// Fields:
//
//	ID             – primary key identifier.
//	Name           – unique asset name.
//	Description    – free-text description shown in the catalog.
//	Category       – grouping label (e.g. "Power Tools").
//	ImageURL       – optional catalog image location.
//	UnitPriceCents – purchase price per unit in cents.
//	DailyRateCents – rental price per unit per day in cents.
//	TotalStock     – total units owned.
//	AvailableStock – units not committed right now.
//	CreatedAt      – timestamp of creation.
//	UpdatedAt      – timestamp of last update.
type Asset struct {
	ID             uint64    // assets.id
	Name           string    // assets.name
	Description    string    // assets.description
	Category       string    // assets.category
	ImageURL       string    // assets.image_url
	UnitPriceCents int64     // assets.unit_price_cents
	DailyRateCents int64     // assets.daily_rate_cents
	TotalStock     int       // assets.total_stock
	AvailableStock int       // assets.available_stock
	CreatedAt      time.Time // assets.created_at
	UpdatedAt      time.Time // assets.updated_at
}

// Available reports whether at least one unit can be committed right
// now. It is derived, never stored.
func (a Asset) Available() bool { return a.AvailableStock > 0 }
