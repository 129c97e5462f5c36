package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/filter"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/nav"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/render"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/service"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/session"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/wizard"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

// DebounceHeader marks a filter post sent while the user is still typing a price
const DebounceHeader = "X-Debounce"

type ctxKey struct{}

// Handler contains the portal's HTTP handlers
type Handler struct {
	portal       service.PortalService
	renderer     *render.Renderer
	cookieTTL    time.Duration
	cookieSecure bool
	upgrader     websocket.Upgrader
	log          logger.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(portal service.PortalService, renderer *render.Renderer, cookieTTL time.Duration, cookieSecure bool, log logger.Logger) *Handler {
	return &Handler{
		portal:       portal,
		renderer:     renderer,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		log: log,
	}
}

// WithSession resolves the browser's portal session and issues a cookie for new ones
func (h *Handler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(session.CookieName); err == nil {
			token = c.Value
		}

		sess, issued, err := h.portal.AcquireSession(token)
		if err != nil {
			h.log.Error("failed to start session", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if issued != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     session.CookieName,
				Value:    issued,
				Path:     "/",
				MaxAge:   int(h.cookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   h.cookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxKey{}).(*session.Session)
	return sess
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.portal.HomePage(r.Context(), sessionFrom(r), apiclient.FromRequest(r))
	h.html(w, func(w http.ResponseWriter) error { return h.renderer.Index(w, page) })
}

// Search handles POST /search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	q := models.SearchQuery{
		Source:      r.PostFormValue("source"),
		Destination: r.PostFormValue("destination"),
		Date:        r.PostFormValue("date"),
	}

	// validation notices live on the session and show after the redirect
	if err := h.portal.Search(r.Context(), sessionFrom(r), apiclient.FromRequest(r), q); err != nil {
		h.log.Debug("search rejected", "error", err)
	}
	redirect(w, r, "/")
}

// Filters handles POST /filters. Price typing arrives with DebounceHeader and is applied
// after a quiet period, pushed over the websocket. Everything else applies immediately.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	fs := filter.State{
		MinPrice: filter.ParseBound(r.PostFormValue("min_price")),
		MaxPrice: filter.ParseBound(r.PostFormValue("max_price")),
		Bucket:   filter.ParseBucket(r.PostFormValue("time")),
		Sort:     filter.ParseSort(r.PostFormValue("sort")),
	}

	sess := sessionFrom(r)
	if r.Header.Get(DebounceHeader) != "" {
		h.portal.ApplyFiltersDebounced(sess, fs)
		w.WriteHeader(http.StatusAccepted)
		return
	}
	h.portal.ApplyFilters(sess, fs)
	redirect(w, r, "/")
}

// ResetFilters handles POST /filters/reset
func (h *Handler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.portal.ResetFilters(sessionFrom(r))
	redirect(w, r, "/")
}

// OpenWizard handles POST /wizard/open
func (h *Handler) OpenWizard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PostFormValue("flight_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid flight id", http.StatusBadRequest)
		return
	}

	err = h.portal.OpenWizard(r.Context(), sessionFrom(r), apiclient.FromRequest(r), id)
	switch {
	case errors.Is(err, service.ErrLoginRequired):
		redirect(w, r, nav.LoginPath)
	case errors.Is(err, service.ErrFlightNotFound):
		http.Error(w, "Flight not found", http.StatusNotFound)
	case errors.Is(err, wizard.ErrCheckoutInProgress):
		// the paying wizard carries the notice
		redirect(w, r, "/")
	case err != nil:
		h.log.Error("failed to open booking wizard", "flight_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	default:
		redirect(w, r, "/")
	}
}

// Wizard handles GET /wizard and renders the live booking dialog on its own
func (h *Handler) Wizard(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(r).Wizard()
	if !ok {
		http.Error(w, "No booking in progress", http.StatusNotFound)
		return
	}
	h.html(w, func(w http.ResponseWriter) error { return h.renderer.Wizard(w, render.NewWizardView(st)) })
}

// SelectClass handles POST /wizard/class
func (h *Handler) SelectClass(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, wizard.SelectClass{Class: models.CabinClass(r.PostFormValue("class"))})
}

// ToggleSeat handles POST /wizard/seat
func (h *Handler) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, wizard.ToggleSeat{Label: r.PostFormValue("seat")})
}

// SetGroup handles POST /wizard/group
func (h *Handler) SetGroup(w http.ResponseWriter, r *http.Request) {
	enabled, _ := strconv.ParseBool(r.PostFormValue("enabled"))
	h.dispatch(w, r, wizard.SetGroup{Enabled: enabled})
}

// ConfirmSeats handles POST /wizard/confirm-seats
func (h *Handler) ConfirmSeats(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, wizard.ConfirmSeats{})
}

// Back handles POST /wizard/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, wizard.Back{})
}

// SubmitPassengers handles POST /wizard/passengers
func (h *Handler) SubmitPassengers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	h.dispatch(w, r, wizard.SubmitPassengers{Names: r.PostForm["passenger_name"]})
}

// Dismiss handles POST /wizard/dismiss
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, wizard.Dismiss{})
}

// dispatch applies a wizard event. Rejected events leave their notice on the wizard,
// so every outcome redirects back to the page.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, ev wizard.Event) {
	_, _, err := h.portal.Dispatch(sessionFrom(r), apiclient.FromRequest(r), ev)
	if err != nil && !errors.Is(err, session.ErrNoWizard) {
		h.log.Debug("wizard event rejected", "event", ev, "error", err)
	}
	redirect(w, r, "/")
}

// Bookings handles GET /bookings
func (h *Handler) Bookings(w http.ResponseWriter, r *http.Request) {
	page, err := h.portal.BookingsPage(r.Context(), sessionFrom(r), apiclient.FromRequest(r))
	if errors.Is(err, service.ErrLoginRequired) {
		redirect(w, r, nav.LoginPath)
		return
	}
	if err != nil {
		h.log.Error("failed to load bookings page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.html(w, func(w http.ResponseWriter) error { return h.renderer.Bookings(w, page) })
}

// Logout handles GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.portal.Logout(r.Context(), sessionFrom(r), apiclient.FromRequest(r)) {
		http.SetCookie(w, c)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
	})
	redirect(w, r, nav.LoginPath)
}

// WebSocket handles GET /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.portal.Attach(conn, sessionFrom(r))
}

func (h *Handler) html(w http.ResponseWriter, render func(http.ResponseWriter) error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render(w); err != nil {
		h.log.Error("failed to render page", "error", err)
	}
}
