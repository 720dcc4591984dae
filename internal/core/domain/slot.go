package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidSlot = errors.New("invalid slot format")

// ErrLegacySlot marks a persisted slot value that cannot be confidently
// canonicalized. It is deliberately distinct from ErrInvalidSlot: an unparsed
// stored record must never collapse to an empty key, or two garbage records
// would compare equal and corrupt the uniqueness check.
var ErrLegacySlot = errors.New("unparsed legacy slot")

// SlotKey is the canonical identity of a 30-minute appointment slot: the
// interval's start instant in UTC, RFC3339, whole-second precision. All
// equality and uniqueness comparisons go through this form.
type SlotKey string

// Time returns the instant the key encodes.
func (k SlotKey) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlot, string(k))
	}
	return t, nil
}

const (
	compositeLayout = "2006-01-02_15:04"
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04"
)

var compositePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}:\d{2}$`)

// isoLayouts are tried for selectors carrying no explicit UTC offset. They are
// interpreted in the codec's pinned location.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// SlotCodec converts every accepted slot-selector shape into a SlotKey.
//
// Selectors without an explicit UTC offset are interpreted in a single pinned
// location supplied at construction, never in the ambient process timezone,
// so the same input canonicalizes identically on every host. Given a fixed
// location the codec is a pure function.
type SlotCodec struct {
	loc *time.Location
}

// NewSlotCodec returns a codec pinned to loc. A nil loc pins to UTC.
func NewSlotCodec(loc *time.Location) SlotCodec {
	if loc == nil {
		loc = time.UTC
	}
	return SlotCodec{loc: loc}
}

// Location returns the pinned location used for offset-less selectors.
func (c SlotCodec) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Canonicalize converts a string selector into the canonical key.
// Accepted shapes:
//
//	"2026-01-05_09:00"          composite date_time, pinned-location wall clock
//	"2026-01-05T09:00:00Z"      ISO-8601 with explicit offset
//	"2026-01-05T09:00:00"       ISO-8601 without offset, pinned-location wall clock
//
// Anything else, including calendar-invalid components, fails with
// ErrInvalidSlot. There is no fallback key for unparseable input.
func (c SlotCodec) Canonicalize(raw string) (SlotKey, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty selector", ErrInvalidSlot)
	}

	if compositePattern.MatchString(s) {
		t, err := time.ParseInLocation(compositeLayout, s, c.Location())
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidSlot, raw)
		}
		return canonical(t), nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return canonical(t), nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, c.Location()); err == nil {
			return canonical(t), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, raw)
}

// CanonicalizeParts converts the structured {date, time} selector shape
// (retained for backward compatibility with previously persisted data) into
// the canonical key.
func (c SlotCodec) CanonicalizeParts(date, timeOfDay string) (SlotKey, error) {
	d := strings.TrimSpace(date)
	tod := strings.TrimSpace(timeOfDay)
	if d == "" || tod == "" {
		return "", fmt.Errorf("%w: date=%q time=%q", ErrInvalidSlot, date, timeOfDay)
	}
	t, err := time.ParseInLocation(dateLayout+" "+timeOfDayLayout, d+" "+tod, c.Location())
	if err != nil {
		return "", fmt.Errorf("%w: date=%q time=%q", ErrInvalidSlot, date, timeOfDay)
	}
	return canonical(t), nil
}

// StoredSlot is a slot value as read back from the booking store. Historical
// revisions persisted three incompatible shapes, so either the plain string
// or the structured document fields may be populated.
type StoredSlot struct {
	// Value holds the slot when persisted as a plain string (composite or ISO).
	Value string
	// Document is true when the slot was persisted as the legacy sub-document.
	Document  bool
	Date      string
	TimeOfDay string
	ID        string
}

// Raw returns the stored value in a display-safe string form without
// normalizing it.
func (s StoredSlot) Raw() string {
	if !s.Document {
		return s.Value
	}
	if s.ID != "" {
		return s.ID
	}
	if s.Date != "" || s.TimeOfDay != "" {
		return s.Date + "_" + s.TimeOfDay
	}
	return ""
}

// NormalizeStored canonicalizes a persisted slot value of any historical
// shape. Values that cannot be confidently canonicalized fail with
// ErrLegacySlot; callers must skip such records when building comparison
// sets rather than treating them as equal to anything.
func (c SlotCodec) NormalizeStored(s StoredSlot) (SlotKey, error) {
	if !s.Document {
		key, err := c.Canonicalize(s.Value)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrLegacySlot, s.Value)
		}
		return key, nil
	}

	if s.Date != "" && s.TimeOfDay != "" {
		key, err := c.CanonicalizeParts(s.Date, s.TimeOfDay)
		if err != nil {
			return "", fmt.Errorf("%w: date=%q time=%q", ErrLegacySlot, s.Date, s.TimeOfDay)
		}
		return key, nil
	}
	if s.ID != "" {
		key, err := c.Canonicalize(s.ID)
		if err != nil {
			return "", fmt.Errorf("%w: id=%q", ErrLegacySlot, s.ID)
		}
		return key, nil
	}

	return "", fmt.Errorf("%w: empty document", ErrLegacySlot)
}

// DateOf returns the calendar date (in the pinned location) a canonical key
// falls on. Used for date-scoped queries and cache invalidation; filtering by
// this value is the correct way to group stored slots by day, never a prefix
// match on the raw persisted string.
func (c SlotCodec) DateOf(key SlotKey) (string, error) {
	t, err := key.Time()
	if err != nil {
		return "", err
	}
	return t.In(c.Location()).Format(dateLayout), nil
}

// TimeOfDayOf returns the wall-clock time (in the pinned location) a
// canonical key starts at.
func (c SlotCodec) TimeOfDayOf(key SlotKey) (string, error) {
	t, err := key.Time()
	if err != nil {
		return "", err
	}
	return t.In(c.Location()).Format(timeOfDayLayout), nil
}

// canonical truncates to whole seconds before formatting: sub-second noise is
// irrelevant to slot identity and must not leak into comparisons.
func canonical(t time.Time) SlotKey {
	return SlotKey(t.UTC().Truncate(time.Second).Format(time.RFC3339))
}
