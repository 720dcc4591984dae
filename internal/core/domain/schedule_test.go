package domain

import (
	"testing"
	"time"
)

func TestScheduleTimeSlotsDefaults(t *testing.T) {
	sched, err := NewSchedule(NewSlotCodec(time.UTC), "", "", 0)
	if err != nil {
		t.Fatal(err)
	}

	slots := sched.TimeSlots()
	if len(slots) != 16 {
		t.Fatalf("TimeSlots returned %d options, want 16", len(slots))
	}
	if slots[0] != "09:00" {
		t.Errorf("first slot = %q, want %q", slots[0], "09:00")
	}
	if slots[len(slots)-1] != "16:30" {
		t.Errorf("last slot = %q, want %q", slots[len(slots)-1], "16:30")
	}
	// Half-open window: the end boundary itself is not bookable.
	for _, s := range slots {
		if s == "17:00" {
			t.Error("TimeSlots includes the day-end boundary 17:00")
		}
	}
}

func TestScheduleRejectsBadHours(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	if _, err := NewSchedule(codec, "17:00", "09:00", 0); err == nil {
		t.Error("NewSchedule accepted end before start")
	}
	if _, err := NewSchedule(codec, "9am", "17:00", 0); err == nil {
		t.Error("NewSchedule accepted malformed start")
	}
}

func TestScheduleDates(t *testing.T) {
	sched, err := NewSchedule(NewSlotCodec(time.UTC), "", "", 0)
	if err != nil {
		t.Fatal(err)
	}

	today := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	dates := sched.Dates(today, 14)
	if len(dates) != 14 {
		t.Fatalf("Dates returned %d entries, want 14", len(dates))
	}
	if dates[0] != "2026-01-05" {
		t.Errorf("first date = %q, want %q", dates[0], "2026-01-05")
	}
	if dates[13] != "2026-01-18" {
		t.Errorf("last date = %q, want %q", dates[13], "2026-01-18")
	}

	// n <= 0 falls back to the default window.
	if got := len(sched.Dates(today, 0)); got != DefaultWindowDays {
		t.Errorf("Dates(today, 0) returned %d entries, want %d", got, DefaultWindowDays)
	}
}

func TestScheduleCountAvailableMixedShapes(t *testing.T) {
	codec := NewSlotCodec(time.UTC)
	sched, err := NewSchedule(codec, "", "", 0)
	if err != nil {
		t.Fatal(err)
	}

	// Booked set built from three different selector shapes for the same day.
	booked := make(map[SlotKey]struct{})
	for _, raw := range []string{
		"2026-01-05_09:00",
		"2026-01-05T10:00:00Z",
		"2026-01-05T11:30:00",
	} {
		key, cerr := codec.Canonicalize(raw)
		if cerr != nil {
			t.Fatalf("Canonicalize(%q): %v", raw, cerr)
		}
		booked[key] = struct{}{}
	}

	if got := sched.CountAvailable("2026-01-05", booked); got != 13 {
		t.Errorf("CountAvailable = %d, want 13", got)
	}
	if !sched.IsBooked("2026-01-05", "09:00", booked) {
		t.Error("IsBooked(09:00) = false, want true")
	}
	if sched.IsBooked("2026-01-05", "09:30", booked) {
		t.Error("IsBooked(09:30) = true, want false")
	}

	// A different day sees a fully open grid.
	if got := sched.CountAvailable("2026-01-06", booked); got != 16 {
		t.Errorf("CountAvailable other day = %d, want 16", got)
	}
}

func TestScheduleIsBookedFailsOpen(t *testing.T) {
	sched, err := NewSchedule(NewSlotCodec(time.UTC), "", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if sched.IsBooked("not-a-date", "99:99", map[SlotKey]struct{}{}) {
		t.Error("IsBooked on malformed input = true, want false")
	}
}
