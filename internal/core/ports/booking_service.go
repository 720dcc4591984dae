package ports

import (
	"context"
	"time"

	"github.com/bookline/booking-system/internal/core/domain"
)

// CreateBookingInput carries an authenticated caller and a raw slot selector.
// Slot holds the composite or ISO string shape; Date/TimeOfDay hold the
// structured legacy shape. Exactly one of the two forms is expected.
type CreateBookingInput struct {
	UserID    string
	Slot      string
	Date      string
	TimeOfDay string
}

// CancelBookingInput identifies the booking to cancel and the caller, so the
// service can enforce ownership.
type CancelBookingInput struct {
	CallerID  string
	Role      string
	BookingID string
}

// BookingView is a booking prepared for display: slot canonicalized where
// possible, owner resolved. Slot is empty when the stored value could not be
// canonicalized (unparsed legacy record); RawSlot always carries the stored
// value as persisted.
type BookingView struct {
	ID         string
	Slot       domain.SlotKey
	RawSlot    string
	OwnerID    string
	OwnerName  string
	OwnerEmail string
	CreatedAt  time.Time
}

// SlotOption is one time-of-day entry in a day's availability grid.
type SlotOption struct {
	TimeOfDay string
	Booked    bool
}

// DayAvailability is the availability view for a single calendar date.
type DayAvailability struct {
	Date      string
	Slots     []SlotOption
	Available int
}

// BookingService orchestrates booking requests end to end. Expected failures
// surface as the domain sentinels (ErrNotAuthenticated, ErrInvalidSlot,
// ErrSlotTaken, ErrForbidden); any unexpected storage fault surfaces as
// ErrStorageUnavailable, never as a false conflict or a silent success.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)

	// Cancel is idempotent: cancelling an id that no longer exists reports
	// success, since the end state is what the caller wants.
	Cancel(ctx context.Context, in CancelBookingInput) error

	// ListMine returns the caller's bookings by creation time, newest first.
	ListMine(ctx context.Context, userID string) ([]BookingView, error)

	// ListUpcoming returns the caller's future bookings in slot order.
	ListUpcoming(ctx context.Context, userID string, now time.Time) ([]BookingView, error)

	// ListAll returns every booking across users (administrative view).
	ListAll(ctx context.Context) ([]BookingView, error)

	// ListByDate returns bookings whose canonicalized slot falls on date.
	ListByDate(ctx context.Context, date string) ([]BookingView, error)

	Availability(ctx context.Context, date string) (*DayAvailability, error)

	// Dates returns the bookable date window starting at now.
	Dates(now time.Time) []string
}
