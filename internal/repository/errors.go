// Package repository implements data access over MySQL. Each
// aggregate gets its own repository with plain and Tx method
// variants; the Tx variants run inside a caller-owned *sql.Tx so a
// handler can combine reads and writes into one atomic unit. This
// file defines the sentinel errors shared across repositories so
// handlers can map failures to HTTP responses with errors.Is.
package repository

import "errors"

// ErrUserNotFound is returned when a user id or email does not
// resolve to a row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrAssetNotFound is returned when an asset id does not resolve to
// a row.
var ErrAssetNotFound = errors.New("asset not found")

// ErrCartEntryNotFound is returned when a checkout selection names a
// cart entry that does not exist. Plain removals never return it;
// removing an absent entry is a no-op.
var ErrCartEntryNotFound = errors.New("cart entry not found")

// ErrReservationNotFound is returned when a reservation id does not
// resolve to a row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrOrderNotFound is returned when an order id does not resolve to
// a row.
var ErrOrderNotFound = errors.New("order not found")

// ErrConflict is returned when a delete or update cannot proceed due
// to dependent records, such as deleting an asset with active
// reservations. Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")
