package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCanonicalizeAcceptedShapes(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	tests := []struct {
		name  string
		input string
		want  SlotKey
	}{
		{"composite", "2026-01-05_09:00", "2026-01-05T09:00:00Z"},
		{"iso with utc offset", "2026-01-05T09:00:00Z", "2026-01-05T09:00:00Z"},
		{"iso with numeric offset", "2026-01-05T04:00:00-05:00", "2026-01-05T09:00:00Z"},
		{"iso without offset", "2026-01-05T09:00:00", "2026-01-05T09:00:00Z"},
		{"iso without seconds", "2026-01-05T09:00", "2026-01-05T09:00:00Z"},
		{"iso with fractional seconds", "2026-01-05T09:00:00.123456789Z", "2026-01-05T09:00:00Z"},
		{"surrounding whitespace", "  2026-01-05_09:00  ", "2026-01-05T09:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Canonicalize(tt.input)
			if err != nil {
				t.Fatalf("Canonicalize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalizeRejectsInvalidInput(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"garbage", "not-a-slot"},
		{"date only", "2026-01-05"},
		{"time only", "09:00"},
		{"calendar-invalid composite", "2026-13-40_99:99"},
		{"calendar-invalid iso", "2026-13-05T09:00:00Z"},
		{"composite with seconds", "2026-01-05_09:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := codec.Canonicalize(tt.input)
			if !errors.Is(err, ErrInvalidSlot) {
				t.Fatalf("Canonicalize(%q) error = %v, want ErrInvalidSlot", tt.input, err)
			}
			if key != "" {
				t.Errorf("Canonicalize(%q) returned key %q on error, want empty", tt.input, key)
			}
		})
	}
}

func TestCanonicalizeParts(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	key, err := codec.CanonicalizeParts("2026-01-05", "09:00")
	if err != nil {
		t.Fatalf("CanonicalizeParts error: %v", err)
	}
	if key != "2026-01-05T09:00:00Z" {
		t.Errorf("CanonicalizeParts = %q, want %q", key, "2026-01-05T09:00:00Z")
	}

	for _, tt := range []struct{ date, tod string }{
		{"", "09:00"},
		{"2026-01-05", ""},
		{"2026-13-40", "09:00"},
		{"2026-01-05", "99:99"},
	} {
		if _, err := codec.CanonicalizeParts(tt.date, tt.tod); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("CanonicalizeParts(%q, %q) error = %v, want ErrInvalidSlot", tt.date, tt.tod, err)
		}
	}
}

// Every accepted shape naming the same instant must yield the same key, so a
// conflict is detected regardless of which shape each writer used.
func TestCanonicalizeCrossShapeEquivalence(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	want := SlotKey("2026-01-05T09:00:00Z")
	fromComposite, err := codec.Canonicalize("2026-01-05_09:00")
	if err != nil {
		t.Fatal(err)
	}
	fromISO, err := codec.Canonicalize("2026-01-05T04:00:00-05:00")
	if err != nil {
		t.Fatal(err)
	}
	fromParts, err := codec.CanonicalizeParts("2026-01-05", "09:00")
	if err != nil {
		t.Fatal(err)
	}

	for name, got := range map[string]SlotKey{
		"composite": fromComposite,
		"iso":       fromISO,
		"parts":     fromParts,
	} {
		if got != want {
			t.Errorf("%s shape canonicalized to %q, want %q", name, got, want)
		}
	}
}

// Canonical output fed back through the codec must map to itself.
func TestCanonicalizeIdempotent(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	first, err := codec.Canonicalize("2026-01-05_09:00")
	if err != nil {
		t.Fatal(err)
	}
	second, err := codec.Canonicalize(string(first))
	if err != nil {
		t.Fatalf("canonical key %q did not re-canonicalize: %v", first, err)
	}
	if second != first {
		t.Errorf("re-canonicalized %q to %q, want fixed point", first, second)
	}
}

func TestCanonicalizePinnedLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	codec := NewSlotCodec(est)

	// Offset-less shapes read as EST wall clock.
	key, err := codec.Canonicalize("2026-01-05_09:00")
	if err != nil {
		t.Fatal(err)
	}
	if key != "2026-01-05T14:00:00Z" {
		t.Errorf("composite in EST = %q, want %q", key, "2026-01-05T14:00:00Z")
	}

	// An explicit offset always wins over the pinned location.
	key, err = codec.Canonicalize("2026-01-05T09:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if key != "2026-01-05T09:00:00Z" {
		t.Errorf("explicit offset in EST codec = %q, want %q", key, "2026-01-05T09:00:00Z")
	}
}

func TestNormalizeStored(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	tests := []struct {
		name   string
		stored StoredSlot
		want   SlotKey
	}{
		{"string composite", StoredSlot{Value: "2026-01-05_09:00"}, "2026-01-05T09:00:00Z"},
		{"string iso", StoredSlot{Value: "2026-01-05T09:00:00Z"}, "2026-01-05T09:00:00Z"},
		{"document date and time", StoredSlot{Document: true, Date: "2026-01-05", TimeOfDay: "09:00"}, "2026-01-05T09:00:00Z"},
		{"document id only", StoredSlot{Document: true, ID: "2026-01-05_09:00"}, "2026-01-05T09:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.NormalizeStored(tt.stored)
			if err != nil {
				t.Fatalf("NormalizeStored error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeStored = %q, want %q", got, tt.want)
			}
		})
	}
}

// Unparseable persisted values must fail with ErrLegacySlot and never yield a
// key. Two different unparseable records collapsing to the same key would make
// them spuriously equal.
func TestNormalizeStoredLegacyFailures(t *testing.T) {
	codec := NewSlotCodec(time.UTC)

	tests := []struct {
		name   string
		stored StoredSlot
	}{
		{"garbage string", StoredSlot{Value: "garbage-a"}},
		{"other garbage string", StoredSlot{Value: "garbage-b"}},
		{"empty document", StoredSlot{Document: true}},
		{"document with bad date", StoredSlot{Document: true, Date: "2026-13-40", TimeOfDay: "09:00"}},
		{"document with garbage id", StoredSlot{Document: true, ID: "whatever"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := codec.NormalizeStored(tt.stored)
			if !errors.Is(err, ErrLegacySlot) {
				t.Fatalf("NormalizeStored error = %v, want ErrLegacySlot", err)
			}
			if key != "" {
				t.Errorf("NormalizeStored returned key %q on error, want empty", key)
			}
		})
	}
}

func TestStoredSlotRaw(t *testing.T) {
	tests := []struct {
		name   string
		stored StoredSlot
		want   string
	}{
		{"string value", StoredSlot{Value: "2026-01-05_09:00"}, "2026-01-05_09:00"},
		{"document with id", StoredSlot{Document: true, ID: "legacy-id", Date: "2026-01-05"}, "legacy-id"},
		{"document with parts", StoredSlot{Document: true, Date: "2026-01-05", TimeOfDay: "09:00"}, "2026-01-05_09:00"},
		{"empty document", StoredSlot{Document: true}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stored.Raw(); got != tt.want {
				t.Errorf("Raw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateOfAndTimeOfDayOf(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	codec := NewSlotCodec(est)

	// 02:00 UTC is 21:00 the previous day in EST; date-scoped queries group by
	// pinned-location calendar day.
	key := SlotKey("2026-01-06T02:00:00Z")

	date, err := codec.DateOf(key)
	if err != nil {
		t.Fatal(err)
	}
	if date != "2026-01-05" {
		t.Errorf("DateOf = %q, want %q", date, "2026-01-05")
	}

	tod, err := codec.TimeOfDayOf(key)
	if err != nil {
		t.Fatal(err)
	}
	if tod != "21:00" {
		t.Errorf("TimeOfDayOf = %q, want %q", tod, "21:00")
	}

	if _, err := codec.DateOf("not-a-key"); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("DateOf on malformed key error = %v, want ErrInvalidSlot", err)
	}
}
