package handler

import "time"

// Booking endpoints report outcomes as a tagged result: {"success": true, …}
// or {"success": false, "error": "<kind>", "message": "…"}. Expected failures
// never surface as thrown errors past the service boundary.

// Error kinds exposed to callers.
const (
	kindNotAuthenticated   = "not_authenticated"
	kindInvalidSlotFormat  = "invalid_slot_format"
	kindSlotAlreadyBooked  = "slot_already_booked"
	kindStorageUnavailable = "storage_unavailable"
	kindForbidden          = "forbidden"
	kindNotFound           = "not_found"
)

// errorResponse is the standard error envelope returned on auth endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// createBookingRequest accepts either the string selector (composite
// "YYYY-MM-DD_HH:mm" or ISO-8601) or the structured legacy {date, time} pair.
type createBookingRequest struct {
	Slot      string `json:"slot,omitempty"`
	Date      string `json:"date,omitempty"`
	TimeOfDay string `json:"time,omitempty"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type createBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id"`
	Slot      string `json:"slot"`
}

type cancelBookingResponse struct {
	Success bool `json:"success"`
}

type bookingOwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type bookingItemResponse struct {
	ID        string               `json:"id"`
	Slot      string               `json:"slot"`
	RawSlot   string               `json:"raw_slot,omitempty"`
	Owner     bookingOwnerResponse `json:"owner"`
	CreatedAt time.Time            `json:"created_at"`
}

type listBookingsResponse struct {
	Success bool                  `json:"success"`
	Data    []bookingItemResponse `json:"data"`
}

type slotOptionResponse struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

type availabilityResponse struct {
	Date      string               `json:"date"`
	Slots     []slotOptionResponse `json:"slots"`
	Available int                  `json:"available"`
}

type datesResponse struct {
	Dates []string `json:"dates"`
}
