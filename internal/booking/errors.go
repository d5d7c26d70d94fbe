// Package booking holds the pure rules of the rental business:
// calendar date handling, pricing, overlap capacity checks, the
// checkout plan builder and the reservation status machine. The
// package operates on plain values and performs no I/O; the
// repository and handler layers feed it snapshots and apply its
// results inside database transactions.
package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity is returned when a quantity is zero or
// negative. Handlers translate it into an HTTP 400 response.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// ErrInvalidDateRange is returned when a rental range is malformed:
// an unparseable date, a start on or after the end, or a missing
// bound. Handlers translate it into an HTTP 400 response.
var ErrInvalidDateRange = errors.New("invalid rental date range")

// ErrInsufficientStock is the sentinel matched by errors.Is for any
// stock or capacity shortfall. The concrete error carries counts.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidAdjustment is returned when a total-stock change would
// leave fewer units than are currently committed.
var ErrInvalidAdjustment = errors.New("total stock below committed quantity")

// ErrInvalidStatus is returned for a reservation status value
// outside {ACTIVE, RETURNED}.
var ErrInvalidStatus = errors.New("invalid reservation status")

// InsufficientStockError reports a stock or capacity shortfall with
// enough detail to display to the user. Available is the number of
// units that could still be granted; Requested is what was asked
// for. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	AssetID   uint64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for asset %d: available %d, requested %d",
		e.AssetID, e.Available, e.Requested)
}

// Is makes errors.Is(err, ErrInsufficientStock) succeed for typed
// shortfall errors.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
