package booking

import "github.com/srvk/hardware-rental/internal/model"

// StockDelta returns the available-stock adjustment implied by a
// reservation status transition, in units of the reservation's
// quantity. Returning a rental gives stock back (+1 multiplier);
// reactivating a returned rental takes it again (-1); repeating the
// current status is an accepted no-op (0). Unknown statuses are
// rejected so a typo can never move stock.
func StockDelta(current, next string, quantity int) (int, error) {
	if !validStatus(current) || !validStatus(next) {
		return 0, ErrInvalidStatus
	}
	if current == next {
		return 0, nil
	}
	if next == model.ReservationReturned {
		return quantity, nil
	}
	return -quantity, nil
}

func validStatus(s string) bool {
	return s == model.ReservationActive || s == model.ReservationReturned
}
