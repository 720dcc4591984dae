package ports

import "context"

// AvailabilityCache stores computed per-date availability views.
type AvailabilityCache interface {
	// Get returns the cached view for date, or nil when absent.
	Get(ctx context.Context, date string) (*DayAvailability, error)
	Set(ctx context.Context, date string, view *DayAvailability) error
	InvalidateDate(ctx context.Context, date string) error
}

// ViewInvalidator is the fire-and-forget invalidation signal emitted after a
// successful reserve or cancel. Implementations must not block the request
// path; the core logic depends only on this interface, never on a
// process-wide singleton.
type ViewInvalidator interface {
	Invalidate(date string)
}
