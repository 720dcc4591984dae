package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-system/internal/api/metrics"
	"github.com/bookline/booking-system/internal/core/domain"
	"github.com/bookline/booking-system/internal/core/ports"
)

// BookingService orchestrates booking requests: validate → canonicalize →
// atomic reserve → invalidate. All expected failures surface as domain
// sentinels; anything else is logged and reported as ErrStorageUnavailable.
type BookingService struct {
	repo        ports.BookingRepository
	codec       domain.SlotCodec
	schedule    domain.Schedule
	cache       ports.AvailabilityCache
	invalidator ports.ViewInvalidator
	windowDays  int
	logger      zerolog.Logger
}

func NewBookingService(
	repo ports.BookingRepository,
	codec domain.SlotCodec,
	schedule domain.Schedule,
	cache ports.AvailabilityCache,
	invalidator ports.ViewInvalidator,
	windowDays int,
	logger zerolog.Logger,
) *BookingService {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	return &BookingService{
		repo:        repo,
		codec:       codec,
		schedule:    schedule,
		cache:       cache,
		invalidator: invalidator,
		windowDays:  windowDays,
		logger:      logger,
	}
}

// Create reserves the slot identified by the raw selector for the caller.
// The uniqueness decision is made entirely by the repository's conditional
// write; this method never pre-checks existence.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	if in.UserID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var key domain.SlotKey
	var err error
	if in.Slot != "" {
		key, err = s.codec.Canonicalize(in.Slot)
	} else {
		key, err = s.codec.CanonicalizeParts(in.Date, in.TimeOfDay)
	}
	if err != nil {
		metrics.SlotParseErrorsTotal.WithLabelValues("request").Inc()
		return nil, err
	}

	booking := &domain.Booking{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Slot:      key,
		CreatedAt: time.Now().UTC(),
	}

	start := time.Now()
	if err := s.repo.Reserve(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			metrics.BookingConflictsTotal.Inc()
			metrics.ReserveDuration.WithLabelValues("conflict").Observe(time.Since(start).Seconds())
			return nil, domain.ErrSlotTaken
		}
		metrics.ReserveDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		s.logger.Error().Err(err).Str("slot", string(key)).Str("user_id", in.UserID).Msg("reserve failed")
		return nil, domain.ErrStorageUnavailable
	}
	metrics.BookingsCreatedTotal.Inc()
	metrics.ReserveDuration.WithLabelValues("created").Observe(time.Since(start).Seconds())

	s.logger.Info().Str("booking_id", booking.ID).Str("slot", string(key)).Str("user_id", in.UserID).Msg("booking created")
	s.invalidateFor(key)

	return booking, nil
}

// Cancel deletes a booking. Only the owner or an admin may cancel; a missing
// id reports success, since the end state (no such booking) is what the
// caller wants.
func (s *BookingService) Cancel(ctx context.Context, in ports.CancelBookingInput) error {
	if in.CallerID == "" {
		return domain.ErrNotAuthenticated
	}

	stored, err := s.repo.FindByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return nil
		}
		s.logger.Error().Err(err).Str("booking_id", in.BookingID).Msg("cancel lookup failed")
		return domain.ErrStorageUnavailable
	}

	if in.Role != domain.RoleAdmin && stored.OwnerID != in.CallerID {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, in.BookingID); err != nil {
		s.logger.Error().Err(err).Str("booking_id", in.BookingID).Msg("cancel delete failed")
		return domain.ErrStorageUnavailable
	}
	metrics.BookingsCancelledTotal.Inc()

	s.logger.Info().Str("booking_id", in.BookingID).Str("caller_id", in.CallerID).Msg("booking cancelled")
	if key, nerr := s.codec.NormalizeStored(stored.Slot); nerr == nil {
		s.invalidateFor(key)
	}

	return nil
}

// ListMine returns the caller's bookings by creation time, newest first (the
// repository's ordering).
func (s *BookingService) ListMine(ctx context.Context, userID string) ([]ports.BookingView, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	stored, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("list bookings failed")
		return nil, domain.ErrStorageUnavailable
	}
	return s.toViews(stored), nil
}

// ListUpcoming returns the caller's future bookings in slot chronological
// order. Records whose stored slot cannot be canonicalized have no position
// on the time line and are omitted.
func (s *BookingService) ListUpcoming(ctx context.Context, userID string, now time.Time) ([]ports.BookingView, error) {
	views, err := s.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming := make([]ports.BookingView, 0, len(views))
	for _, v := range views {
		if v.Slot == "" {
			continue
		}
		t, terr := v.Slot.Time()
		if terr != nil || t.Before(now) {
			continue
		}
		upcoming = append(upcoming, v)
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Slot < upcoming[j].Slot })
	return upcoming, nil
}

func (s *BookingService) ListAll(ctx context.Context) ([]ports.BookingView, error) {
	stored, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list all bookings failed")
		return nil, domain.ErrStorageUnavailable
	}
	return s.toViews(stored), nil
}

// ListByDate returns the bookings whose canonicalized slot falls on date.
// The filter runs on the canonical date, never on a prefix of the stored
// string: persisted values may be in any of the historical shapes.
func (s *BookingService) ListByDate(ctx context.Context, date string) ([]ports.BookingView, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidSlot, date)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]ports.BookingView, 0)
	for _, v := range all {
		if v.Slot == "" {
			continue
		}
		d, derr := s.codec.DateOf(v.Slot)
		if derr == nil && d == date {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// Availability computes the slot grid for date, read-through cached per date.
func (s *BookingService) Availability(ctx context.Context, date string) (*ports.DayAvailability, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidSlot, date)
	}

	if s.cache != nil {
		cached, cerr := s.cache.Get(ctx, date)
		switch {
		case cerr != nil:
			metrics.AvailabilityCacheTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(cerr).Str("date", date).Msg("availability cache read failed")
		case cached != nil:
			metrics.AvailabilityCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.AvailabilityCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	stored, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("availability load failed")
		return nil, domain.ErrStorageUnavailable
	}
	booked := s.bookedKeys(stored)

	options := make([]ports.SlotOption, 0, 16)
	for _, tod := range s.schedule.TimeSlots() {
		options = append(options, ports.SlotOption{
			TimeOfDay: tod,
			Booked:    s.schedule.IsBooked(date, tod, booked),
		})
	}
	view := &ports.DayAvailability{
		Date:      date,
		Slots:     options,
		Available: s.schedule.CountAvailable(date, booked),
	}

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, date, view); cerr != nil {
			s.logger.Warn().Err(cerr).Str("date", date).Msg("availability cache write failed")
		}
	}
	return view, nil
}

// Dates returns the bookable date window starting at now.
func (s *BookingService) Dates(now time.Time) []string {
	return s.schedule.Dates(now, s.windowDays)
}

// bookedKeys normalizes stored slots into the canonical membership set.
// Unparsed legacy records are skipped: they must never compare equal to a
// grid slot or to each other.
func (s *BookingService) bookedKeys(stored []ports.StoredBooking) map[domain.SlotKey]struct{} {
	keys := make(map[domain.SlotKey]struct{}, len(stored))
	for _, b := range stored {
		key, err := s.codec.NormalizeStored(b.Slot)
		if err != nil {
			metrics.SlotParseErrorsTotal.WithLabelValues("stored").Inc()
			s.logger.Warn().Str("booking_id", b.ID).Str("raw_slot", b.Slot.Raw()).Msg("skipping unparsed legacy slot")
			continue
		}
		keys[key] = struct{}{}
	}
	return keys
}

func (s *BookingService) toViews(stored []ports.StoredBooking) []ports.BookingView {
	views := make([]ports.BookingView, 0, len(stored))
	for _, b := range stored {
		view := ports.BookingView{
			ID:         b.ID,
			RawSlot:    b.Slot.Raw(),
			OwnerID:    b.OwnerID,
			OwnerName:  b.OwnerName,
			OwnerEmail: b.OwnerEmail,
			CreatedAt:  b.CreatedAt,
		}
		if key, err := s.codec.NormalizeStored(b.Slot); err == nil {
			view.Slot = key
		} else {
			metrics.SlotParseErrorsTotal.WithLabelValues("stored").Inc()
		}
		views = append(views, view)
	}
	return views
}

// invalidateFor emits the fire-and-forget invalidation signal for the date a
// canonical key falls on.
func (s *BookingService) invalidateFor(key domain.SlotKey) {
	if s.invalidator == nil {
		return
	}
	date, err := s.codec.DateOf(key)
	if err != nil {
		return
	}
	s.invalidator.Invalidate(date)
}
