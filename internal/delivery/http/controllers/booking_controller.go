package controllers

import (
	"log/slog"
	"net/http"

	"devevent/internal/delivery/http/helpers"
	"devevent/internal/domain"
)

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

// BookingSuccessResponse is the success response envelope for POST /bookings (201).
type BookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventBookingsResponse is the data payload for GET /events/{slug}/bookings.
type EventBookingsResponse struct {
	Count    int               `json:"count"`
	Bookings []*domain.Booking `json:"bookings"`
}

// EventBookingsSuccessResponse is the success response envelope for GET /events/{slug}/bookings (200).
type EventBookingsSuccessResponse struct {
	Data  EventBookingsResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book a spot at an event
// @Description Books the given email for an event. The email is trimmed and lowercased; event_id must reference an existing event. A confirmation email is sent on a best-effort basis.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} controllers.BookingSuccessResponse "data contains the created booking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event_id)"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.CreateBooking(r.Context(), domain.BookingInput{EventID: req.EventID, Email: req.Email})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// ListEventBookings godoc
// @Summary List bookings for an event
// @Tags bookings
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventBookingsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/bookings [get]
func (c *BookingController) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	bookings, err := c.Service.ListEventBookings(r.Context(), slug)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventBookingsResponse{Count: len(bookings), Bookings: bookings})
}

// BookingCountResponse is the data payload for GET /events/{slug}/bookings/count.
type BookingCountResponse struct {
	Count int `json:"count"`
}

// CountEventBookings godoc
// @Summary Count bookings for an event
// @Tags bookings
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} helpers.APIResponse "data.count"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/bookings/count [get]
func (c *BookingController) CountEventBookings(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	n, err := c.Service.CountEventBookings(r.Context(), slug)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BookingCountResponse{Count: n})
}
