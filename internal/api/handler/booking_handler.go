package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookline/booking-system/internal/core/domain"
	"github.com/bookline/booking-system/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /v1/bookings.
//
// @Summary      Reserve a slot
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Slot selector"
// @Success      201   {object}  createBookingResponse
// @Failure      401   {object}  failureResponse
// @Failure      409   {object}  failureResponse
// @Failure      422   {object}  failureResponse
// @Failure      503   {object}  failureResponse
// @Router       /v1/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, domain.ErrInvalidSlot)
	}

	booking, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		UserID:    ident.ID,
		Slot:      req.Slot,
		Date:      req.Date,
		TimeOfDay: req.TimeOfDay,
	})
	if err != nil {
		return failure(c, err)
	}

	return c.JSON(http.StatusCreated, createBookingResponse{
		Success:   true,
		BookingID: booking.ID,
		Slot:      string(booking.Slot),
	})
}

// Cancel handles DELETE /v1/bookings/:id. Cancellation is idempotent: a
// missing id still reports success.
//
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  cancelBookingResponse
// @Failure      401  {object}  failureResponse
// @Failure      403  {object}  failureResponse
// @Failure      503  {object}  failureResponse
// @Router       /v1/bookings/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	err = h.service.Cancel(c.Request().Context(), ports.CancelBookingInput{
		CallerID:  ident.ID,
		Role:      ident.Role,
		BookingID: c.Param("id"),
	})
	if err != nil {
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, cancelBookingResponse{Success: true})
}

// ListMine handles GET /v1/my/bookings: the caller's bookings, newest first.
//
// @Summary      List my bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listBookingsResponse
// @Failure      401  {object}  failureResponse
// @Failure      503  {object}  failureResponse
// @Router       /v1/my/bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListMine(c.Request().Context(), ident.ID)
	if err != nil {
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, listBookingsResponse{Success: true, Data: toBookingItems(views)})
}

// ListUpcoming handles GET /v1/my/upcoming: the caller's future bookings in
// slot order.
//
// @Summary      List my upcoming appointments
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listBookingsResponse
// @Failure      401  {object}  failureResponse
// @Failure      503  {object}  failureResponse
// @Router       /v1/my/upcoming [get]
func (h *BookingHandler) ListUpcoming(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListUpcoming(c.Request().Context(), ident.ID, time.Now().UTC())
	if err != nil {
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, listBookingsResponse{Success: true, Data: toBookingItems(views)})
}

// ListAll handles GET /v1/bookings (admin). With ?date=YYYY-MM-DD only
// bookings whose canonicalized slot falls on that date are returned.
//
// @Summary      List all bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Filter by canonical slot date (YYYY-MM-DD)"
// @Success      200   {object}  listBookingsResponse
// @Failure      401   {object}  failureResponse
// @Failure      403   {object}  failureResponse
// @Failure      422   {object}  failureResponse
// @Failure      503   {object}  failureResponse
// @Router       /v1/bookings [get]
func (h *BookingHandler) ListAll(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	var views []ports.BookingView
	var err error
	if date := c.QueryParam("date"); date != "" {
		views, err = h.service.ListByDate(c.Request().Context(), date)
	} else {
		views, err = h.service.ListAll(c.Request().Context())
	}
	if err != nil {
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, listBookingsResponse{Success: true, Data: toBookingItems(views)})
}

// failure renders a service error as the tagged failure envelope. Unexpected
// faults are reported as storage_unavailable; the caller may retry those, but
// a slot conflict reflects real contention and retrying the same slot will
// reliably fail again.
func failure(c echo.Context, err error) error {
	status, kind, message := classify(err)
	return c.JSON(status, failureResponse{Success: false, Error: kind, Message: message})
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, kindNotAuthenticated, "Please log in first."
	case errors.Is(err, domain.ErrInvalidSlot):
		return http.StatusUnprocessableEntity, kindInvalidSlotFormat, "Invalid slot date format."
	case errors.Is(err, domain.ErrSlotTaken):
		return http.StatusConflict, kindSlotAlreadyBooked, "Slot is already booked. Please pick another time."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, kindForbidden, "You may only cancel your own bookings."
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, kindNotFound, "Booking not found."
	default:
		return http.StatusServiceUnavailable, kindStorageUnavailable, "Service temporarily unavailable. Please try again."
	}
}
