package domain

import (
	"fmt"
	"time"
)

const (
	DefaultWindowDays = 14
	DefaultDayStart   = "09:00"
	DefaultDayEnd     = "17:00"
	DefaultSlotLength = 30 * time.Minute
)

// Schedule generates the bookable grid: the next N calendar dates and the
// time-of-day options within business hours. It also answers the read-side
// availability questions against a set of canonical keys.
type Schedule struct {
	codec SlotCodec
	start time.Duration // offset from midnight
	end   time.Duration // exclusive
	step  time.Duration
}

// NewSchedule builds a schedule over the half-open window [start, end) with
// the given step. Empty or zero arguments fall back to the defaults of
// 09:00 to 17:00 in 30-minute steps, 16 options per day.
func NewSchedule(codec SlotCodec, start, end string, step time.Duration) (Schedule, error) {
	if start == "" {
		start = DefaultDayStart
	}
	if end == "" {
		end = DefaultDayEnd
	}
	if step <= 0 {
		step = DefaultSlotLength
	}

	startOff, err := parseWallClock(start)
	if err != nil {
		return Schedule{}, err
	}
	endOff, err := parseWallClock(end)
	if err != nil {
		return Schedule{}, err
	}
	if endOff <= startOff {
		return Schedule{}, fmt.Errorf("schedule: day end %q not after start %q", end, start)
	}

	return Schedule{codec: codec, start: startOff, end: endOff, step: step}, nil
}

func parseWallClock(s string) (time.Duration, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("schedule: bad wall-clock time %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Dates returns the next n calendar dates starting today, inclusive, in the
// codec's pinned location. n <= 0 falls back to DefaultWindowDays.
func (s Schedule) Dates(today time.Time, n int) []string {
	if n <= 0 {
		n = DefaultWindowDays
	}
	base := today.In(s.codec.Location())
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, base.AddDate(0, 0, i).Format(dateLayout))
	}
	return out
}

// TimeSlots returns the ordered time-of-day options covering [start, end).
func (s Schedule) TimeSlots() []string {
	out := make([]string, 0, int(s.end-s.start)/int(s.step))
	for off := s.start; off < s.end; off += s.step {
		out = append(out, fmt.Sprintf("%02d:%02d", int(off.Hours()), int(off.Minutes())%60))
	}
	return out
}

// IsBooked reports whether the slot at (date, timeOfDay) is a member of
// booked. It uses the same canonicalization as the write path. A malformed
// date/time combination fails open as "not booked"; this is a display query,
// the authoritative uniqueness check lives on the write path.
func (s Schedule) IsBooked(date, timeOfDay string, booked map[SlotKey]struct{}) bool {
	key, err := s.codec.CanonicalizeParts(date, timeOfDay)
	if err != nil {
		return false
	}
	_, ok := booked[key]
	return ok
}

// CountAvailable returns the number of generated slots for date that are not
// in booked.
func (s Schedule) CountAvailable(date string, booked map[SlotKey]struct{}) int {
	n := 0
	for _, tod := range s.TimeSlots() {
		if !s.IsBooked(date, tod, booked) {
			n++
		}
	}
	return n
}
