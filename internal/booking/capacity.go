package booking

import (
	"time"

	"github.com/srvk/hardware-rental/internal/model"
)

// Overlaps reports whether two inclusive date intervals intersect:
// aStart <= bEnd AND aEnd >= bStart. Two rentals that share even a
// single calendar day compete for the same stock pool.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// UsedCapacity sums the quantities of ACTIVE reservations that
// overlap [start, end]. excludeID skips one reservation by id, which
// date edits use so a reservation does not compete with itself; pass
// zero for new bookings. The SQL in the reservation repository
// mirrors this computation for the transactional path.
func UsedCapacity(existing []model.Reservation, start, end time.Time, excludeID uint64) int {
	used := 0
	for _, r := range existing {
		if r.Status != model.ReservationActive {
			continue
		}
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if Overlaps(r.StartDate, r.EndDate, start, end) {
			used += r.Quantity
		}
	}
	return used
}

// CheckCapacity verifies that granting quantity more units on top of
// used does not exceed the asset's total stock over the window.
// Capacity is evaluated against TotalStock, not the instantaneous
// AvailableStock: disjoint date windows may each claim up to the
// full fleet. On shortfall it returns an InsufficientStockError
// carrying what is still grantable.
func CheckCapacity(assetID uint64, totalStock, used, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if used+quantity > totalStock {
		avail := totalStock - used
		if avail < 0 {
			avail = 0
		}
		return &InsufficientStockError{AssetID: assetID, Available: avail, Requested: quantity}
	}
	return nil
}
