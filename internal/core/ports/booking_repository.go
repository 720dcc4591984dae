package ports

import (
	"context"
	"time"

	"github.com/bookline/booking-system/internal/core/domain"
)

// StoredBooking is a persisted booking as read back from the store, with the
// owner reference resolved to display fields. Slot carries the raw persisted
// value, which may be in any historical shape; callers normalize it through
// the slot codec before any comparison.
type StoredBooking struct {
	ID         string
	Slot       domain.StoredSlot
	OwnerID    string
	OwnerName  string
	OwnerEmail string
	CreatedAt  time.Time
}

// BookingRepository is the booking ledger's durable store.
type BookingRepository interface {
	// Reserve atomically creates the booking unless one with the same
	// canonical slot key already exists, in which case it returns
	// domain.ErrSlotTaken. The existence check and the insert must be a
	// single conditional write; a separate read followed by a write
	// reintroduces the double-booking race.
	Reserve(ctx context.Context, b *domain.Booking) error

	FindByID(ctx context.Context, id string) (*StoredBooking, error)

	// Delete removes the booking with the given id. Deleting an id that does
	// not exist is not an error.
	Delete(ctx context.Context, id string) error

	// ListByUser returns userID's bookings ordered by creation time, most
	// recent first.
	ListByUser(ctx context.Context, userID string) ([]StoredBooking, error)

	// ListAll returns every booking, same ordering as ListByUser.
	ListAll(ctx context.Context) ([]StoredBooking, error)
}
