package booking

import (
	"time"

	"github.com/srvk/hardware-rental/internal/model"
)

// ProductSelection is a snapshot of one selected product cart entry
// joined with its asset, taken under row locks by the checkout
// handler. Only values cross this boundary, never live rows.
type ProductSelection struct {
	AssetID        uint64
	AssetName      string
	UnitPriceCents int64
	AvailableStock int
	Quantity       int
}

// RentalSelection is a snapshot of one selected rental cart entry
// joined with its asset. OverlappingQty is the summed quantity of
// ACTIVE reservations intersecting [StartDate, EndDate], read in the
// same transaction that will later write.
type RentalSelection struct {
	AssetID        uint64
	AssetName      string
	DailyRateCents int64
	TotalStock     int
	OverlappingQty int
	Quantity       int
	StartDate      time.Time
	EndDate        time.Time
}

// Line is one priced entry of a checkout plan and doubles as the
// per-item breakdown of the receipt. StartDate/EndDate/Days are set
// for rental lines only.
type Line struct {
	Kind           string     `json:"kind"`
	AssetID        uint64     `json:"asset_id"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	SubtotalCents  int64      `json:"subtotal_cents"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Days           int        `json:"days,omitempty"`
}

// Plan is the fully validated and priced outcome of checkout steps
// that precede any mutation. If BuildPlan returns a plan, every
// selection passed validation; if it returns an error, nothing may
// be committed.
type Plan struct {
	Lines      []Line
	TotalCents int64
}

// BuildPlan validates and prices every selection, all-or-nothing.
// Products must fit within available stock right now; rentals must
// fit within total stock across their date window. The first
// failure aborts the whole plan so the caller performs no partial
// work.
func BuildPlan(products []ProductSelection, rentals []RentalSelection) (*Plan, error) {
	p := &Plan{Lines: make([]Line, 0, len(products)+len(rentals))}
	for _, s := range products {
		if s.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if s.AvailableStock < s.Quantity {
			return nil, &InsufficientStockError{AssetID: s.AssetID, Available: s.AvailableStock, Requested: s.Quantity}
		}
		sub := s.UnitPriceCents * int64(s.Quantity)
		p.Lines = append(p.Lines, Line{
			Kind:           model.CartKindProduct,
			AssetID:        s.AssetID,
			Name:           s.AssetName,
			Quantity:       s.Quantity,
			UnitPriceCents: s.UnitPriceCents,
			SubtotalCents:  sub,
		})
		p.TotalCents += sub
	}
	for _, s := range rentals {
		if s.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if err := ValidateRange(s.StartDate, s.EndDate); err != nil {
			return nil, err
		}
		if err := CheckCapacity(s.AssetID, s.TotalStock, s.OverlappingQty, s.Quantity); err != nil {
			return nil, err
		}
		sub := Cost(s.DailyRateCents, s.Quantity, s.StartDate, s.EndDate)
		start, end := s.StartDate, s.EndDate
		p.Lines = append(p.Lines, Line{
			Kind:           model.CartKindRental,
			AssetID:        s.AssetID,
			Name:           s.AssetName,
			Quantity:       s.Quantity,
			UnitPriceCents: s.DailyRateCents,
			SubtotalCents:  sub,
			StartDate:      &start,
			EndDate:        &end,
			Days:           Days(start, end),
		})
		p.TotalCents += sub
	}
	return p, nil
}
