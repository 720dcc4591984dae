package handler

import "github.com/bookline/booking-system/internal/core/ports"

// toBookingItems maps service views to the transport shape. Slot carries the
// canonical key when the stored value normalized; raw_slot carries the value
// as persisted (useful for legacy records that did not).
func toBookingItems(views []ports.BookingView) []bookingItemResponse {
	items := make([]bookingItemResponse, 0, len(views))
	for _, v := range views {
		items = append(items, bookingItemResponse{
			ID:      v.ID,
			Slot:    string(v.Slot),
			RawSlot: v.RawSlot,
			Owner: bookingOwnerResponse{
				ID:    v.OwnerID,
				Name:  v.OwnerName,
				Email: v.OwnerEmail,
			},
			CreatedAt: v.CreatedAt,
		})
	}
	return items
}

func toAvailabilityResponse(day *ports.DayAvailability) availabilityResponse {
	slots := make([]slotOptionResponse, 0, len(day.Slots))
	for _, s := range day.Slots {
		slots = append(slots, slotOptionResponse{Time: s.TimeOfDay, Booked: s.Booked})
	}
	return availabilityResponse{Date: day.Date, Slots: slots, Available: day.Available}
}
