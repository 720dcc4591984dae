package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookline/booking-system/internal/core/ports"
)

// AvailabilityHandler serves the bookable-slot views backing the booking
// screen.
type AvailabilityHandler struct {
	service ports.BookingService
	loc     *time.Location
}

func NewAvailabilityHandler(service ports.BookingService, loc *time.Location) *AvailabilityHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityHandler{service: service, loc: loc}
}

// Get handles GET /v1/availability?date=YYYY-MM-DD. Without a date parameter
// it returns today's grid.
//
// @Summary      Slot availability for a date
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Calendar date (YYYY-MM-DD), defaults to today"
// @Success      200   {object}  availabilityResponse
// @Failure      401   {object}  failureResponse
// @Failure      422   {object}  failureResponse
// @Failure      503   {object}  failureResponse
// @Router       /v1/availability [get]
func (h *AvailabilityHandler) Get(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().In(h.loc).Format("2006-01-02")
	}

	day, err := h.service.Availability(c.Request().Context(), date)
	if err != nil {
		return failure(c, err)
	}

	return c.JSON(http.StatusOK, toAvailabilityResponse(day))
}

// Dates handles GET /v1/availability/dates, the bookable date window.
//
// @Summary      Bookable date window
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  datesResponse
// @Failure      401  {object}  failureResponse
// @Router       /v1/availability/dates [get]
func (h *AvailabilityHandler) Dates(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, datesResponse{Dates: h.service.Dates(time.Now().UTC())})
}
