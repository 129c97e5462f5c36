package router

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/handlers"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/metrics"
)

// upstreamPrefixes are served by the upstream application and only relayed
var upstreamPrefixes = []string{"/login", "/signup", "/admin", "/api/", "/static/"}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, upstream http.Handler, metricsHandler http.Handler, m *metrics.Metrics, log logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(instrument(m, log))

	// Health check
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	for _, prefix := range upstreamPrefixes {
		r.PathPrefix(prefix).Handler(upstream)
	}

	// Portal pages, all bound to the browser's session
	portal := r.NewRoute().Subrouter()
	portal.Use(h.WithSession)

	portal.HandleFunc("/", h.Index).Methods(http.MethodGet)
	portal.HandleFunc("/search", h.Search).Methods(http.MethodPost)
	portal.HandleFunc("/filters", h.Filters).Methods(http.MethodPost)
	portal.HandleFunc("/filters/reset", h.ResetFilters).Methods(http.MethodPost)

	// Booking wizard
	portal.HandleFunc("/wizard", h.Wizard).Methods(http.MethodGet)
	portal.HandleFunc("/wizard/open", h.OpenWizard).Methods(http.MethodPost)
	portal.HandleFunc("/wizard/class", h.SelectClass).Methods(http.MethodPost)
	portal.HandleFunc("/wizard/seat", h.ToggleSeat).Methods(http.MethodPost)
	portal.HandleFunc("/wizard/group", h.SetGroup).Methods(http.MethodPost)
	portal.HandleFunc("/wizard/confirm-seats", h.ConfirmSeats).Methods(http.MethodPost)
	portal.HandleFunc("/wizard/back", h.Back).Methods(http.MethodPost)
	portal.HandleFunc("/wizard/passengers", h.SubmitPassengers).Methods(http.MethodPost)
	portal.HandleFunc("/wizard/dismiss", h.Dismiss).Methods(http.MethodPost)

	portal.HandleFunc("/bookings", h.Bookings).Methods(http.MethodGet)
	portal.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)

	// WebSocket for results and checkout pushes
	portal.HandleFunc("/ws", h.WebSocket).Methods(http.MethodGet)

	return r
}

// statusRecorder keeps the response code. It stays hijackable for the websocket upgrade.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func instrument(m *metrics.Metrics, log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			elapsed := time.Since(start)
			m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
			log.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", elapsed,
			)
		})
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
