package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"devevent/internal/delivery/http/controllers"
	"devevent/internal/delivery/http/helpers"
	"devevent/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, bookingController *controllers.BookingController) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events/{slug}", eventController.GetEvent)
	mux.HandleFunc("PUT /events/{slug}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{slug}", eventController.DeleteEvent)
	mux.HandleFunc("GET /events/{slug}/similar", eventController.ListSimilarEvents)

	// Bookings
	mux.HandleFunc("POST /bookings", bookingController.CreateBooking)
	mux.HandleFunc("GET /events/{slug}/bookings", bookingController.ListEventBookings)
	mux.HandleFunc("GET /events/{slug}/bookings/count", bookingController.CountEventBookings)

	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the middleware chain, outermost first:
// logging, CORS, panic recovery.
func NewHandler(logger *slog.Logger, allowedOrigins []string, mux *http.ServeMux) http.Handler {
	var h http.Handler = mux
	h = middleware.Recover(logger, h)
	h = middleware.CORS(allowedOrigins, h)
	return middleware.LoggingMiddleware(logger, h)
}

// HealthResponse is the data payload for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}
