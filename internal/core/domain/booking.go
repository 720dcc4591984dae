package domain

import (
	"errors"
	"time"
)

var ErrSlotTaken = errors.New("slot already booked")
var ErrBookingNotFound = errors.New("booking not found")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrStorageUnavailable = errors.New("storage unavailable")
var ErrForbidden = errors.New("access forbidden")

// Booking is one user's reservation of one slot. The slot key is immutable
// once persisted; there is no "modify slot" transition, a user who wants a
// different time cancels and re-reserves.
type Booking struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user"`
	Slot      SlotKey   `json:"slot" bson:"slot"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
