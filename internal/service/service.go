package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/checkout"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/filter"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/format"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/nav"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/render"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/search"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/seatmap"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/session"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/wizard"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/metrics"
)

// CheckoutTimeout bounds one detached checkout run
const CheckoutTimeout = 2 * time.Minute

var (
	ErrLoginRequired  = errors.New("login required")
	ErrFlightNotFound = errors.New("flight is not part of the current results")
)

// NoticeLoginRequired is shown when booking is attempted anonymously
const NoticeLoginRequired = "Please login to book flights"

// Notifier pushes updates to a session's open pages
type Notifier interface {
	Attach(conn *gorillaws.Conn, sessionID string)
	PushResults(sessionID, html string)
	PushCheckoutCompleted(sessionID, message, redirect string)
	PushCheckoutFailed(sessionID, html string)
}

// PortalService is everything the HTTP handlers need
type PortalService interface {
	AcquireSession(token string) (*session.Session, string, error)
	HomePage(ctx context.Context, sess *session.Session, creds apiclient.Credentials) render.PageData
	Search(ctx context.Context, sess *session.Session, creds apiclient.Credentials, q models.SearchQuery) error
	ApplyFilters(sess *session.Session, fs filter.State)
	ApplyFiltersDebounced(sess *session.Session, fs filter.State)
	ResetFilters(sess *session.Session)
	OpenWizard(ctx context.Context, sess *session.Session, creds apiclient.Credentials, flightID int64) error
	Dispatch(sess *session.Session, creds apiclient.Credentials, ev wizard.Event) (wizard.State, wizard.Effect, error)
	BookingsPage(ctx context.Context, sess *session.Session, creds apiclient.Credentials) (render.BookingsPage, error)
	Logout(ctx context.Context, sess *session.Session, creds apiclient.Credentials) []*http.Cookie
	Attach(conn *gorillaws.Conn, sess *session.Session)
}

// Dependencies wires a portalService
type Dependencies struct {
	API       apiclient.FlightAPI
	Store     *session.Store
	Tokens    *session.TokenService
	Inventory seatmap.Inventory
	Checkout  checkout.Processor
	Notifier  Notifier
	Renderer  *render.Renderer
	Metrics   *metrics.Metrics
	Logger    logger.Logger
}

type portalService struct {
	api       apiclient.FlightAPI
	store     *session.Store
	tokens    *session.TokenService
	searches  *search.Controller
	auth      *nav.Controller
	inventory seatmap.Inventory
	checkout  checkout.Processor
	notifier  Notifier
	renderer  *render.Renderer
	metrics   *metrics.Metrics
	log       logger.Logger
	now       func() time.Time
}

// NewPortalService creates a PortalService
func NewPortalService(d Dependencies) PortalService {
	return &portalService{
		api:       d.API,
		store:     d.Store,
		tokens:    d.Tokens,
		searches:  search.NewController(d.API, d.Metrics, d.Logger),
		auth:      nav.NewController(d.API, d.Logger),
		inventory: d.Inventory,
		checkout:  d.Checkout,
		notifier:  d.Notifier,
		renderer:  d.Renderer,
		metrics:   d.Metrics,
		log:       d.Logger,
		now:       time.Now,
	}
}

// AcquireSession returns the session a cookie token points at. When the token is missing,
// invalid or expired a new session is created and its token returned for the cookie.
func (s *portalService) AcquireSession(token string) (*session.Session, string, error) {
	if token != "" {
		if id, err := s.tokens.Parse(token); err == nil {
			if sess, ok := s.store.Get(id); ok {
				return sess, "", nil
			}
		}
	}

	sess := s.store.Create()
	issued, err := s.tokens.Issue(sess.ID())
	if err != nil {
		s.store.Delete(sess.ID())
		return nil, "", err
	}
	return sess, issued, nil
}

func (s *portalService) HomePage(ctx context.Context, sess *session.Session, creds apiclient.Credentials) render.PageData {
	st := sess.Search()
	visible, fs := sess.Visible()

	page := render.PageData{
		Nav:     s.auth.View(ctx, creds),
		Flash:   sess.TakeFlash(),
		Search:  render.NewSearchView(st, format.Today(s.now())),
		Filters: render.NewFilterView(st.ShowFilters(), fs),
		Results: render.NewResultsView(st, visible),
	}
	if w, ok := sess.Wizard(); ok {
		v := render.NewWizardView(w)
		page.Wizard = &v
	}
	return page
}

// Search runs a search. A stale response is not an error to the caller: the newer
// search already owns the page.
func (s *portalService) Search(ctx context.Context, sess *session.Session, creds apiclient.Credentials, q models.SearchQuery) error {
	_, err := s.searches.Search(ctx, sess, creds, q)
	if errors.Is(err, search.ErrStale) {
		return nil
	}
	return err
}

// ApplyFilters applies fs right away. A price update still waiting on the debouncer
// is dropped so it cannot overwrite fs later.
func (s *portalService) ApplyFilters(sess *session.Session, fs filter.State) {
	sess.CancelDebounce()
	sess.SetFilters(fs)
}

// ApplyFiltersDebounced applies the price bounds of fs once the price inputs have been
// quiet, then pushes the re-rendered result list. Bucket and sort are whatever is current
// when it fires.
func (s *portalService) ApplyFiltersDebounced(sess *session.Session, fs filter.State) {
	sess.Debounce(func() {
		sess.SetPriceBounds(fs.MinPrice, fs.MaxPrice)
		s.pushResults(sess)
	})
}

func (s *portalService) ResetFilters(sess *session.Session) {
	sess.ResetFilters()
}

func (s *portalService) pushResults(sess *session.Session) {
	visible, _ := sess.Visible()
	html, err := s.renderer.ResultsHTML(render.NewResultsView(sess.Search(), visible))
	if err != nil {
		s.log.Error("failed to render results", "session_id", sess.ID(), "error", err)
		return
	}
	s.notifier.PushResults(sess.ID(), html)
}

// OpenWizard starts a booking attempt for a flight of the current results. The user must
// be logged in upstream; otherwise ErrLoginRequired is returned and no draft is created.
// While a payment is in progress wizard.ErrCheckoutInProgress is returned and the paying
// wizard stays live.
func (s *portalService) OpenWizard(ctx context.Context, sess *session.Session, creds apiclient.Credentials, flightID int64) error {
	flight, ok := sess.FindResult(flightID)
	if !ok {
		s.metrics.WizardOpens.WithLabelValues("unknown_flight").Inc()
		return ErrFlightNotFound
	}

	if st := s.auth.Status(ctx, creds); !st.Authenticated {
		s.metrics.WizardOpens.WithLabelValues("login_required").Inc()
		return ErrLoginRequired
	}

	occupied, err := s.inventory.Occupied(ctx, flightID)
	if err != nil {
		s.log.Warn("seat inventory unavailable, showing all seats free", "flight_id", flightID, "error", err)
		occupied = map[string]bool{}
	}

	st := wizard.Open(uuid.NewString(), flight, occupied)
	if err := sess.OpenWizard(st); err != nil {
		s.metrics.WizardOpens.WithLabelValues("checkout_in_progress").Inc()
		s.log.Info("booking wizard not opened, payment in progress", "session_id", sess.ID(), "flight_id", flightID)
		return err
	}
	s.metrics.WizardOpens.WithLabelValues("opened").Inc()
	s.log.Info("booking wizard opened", "session_id", sess.ID(), "wizard_id", st.ID, "flight_id", flightID)
	return nil
}

// Dispatch applies a user event to the live wizard and starts the checkout when the
// transition asks for it
func (s *portalService) Dispatch(sess *session.Session, creds apiclient.Credentials, ev wizard.Event) (wizard.State, wizard.Effect, error) {
	st, effect, err := sess.Dispatch(ev)
	if err != nil {
		return st, effect, err
	}

	if effect.Kind == wizard.EffectCheckout {
		input := models.CheckoutInput{
			WizardID:    st.ID,
			SessionID:   sess.ID(),
			Credentials: string(creds),
			Request:     effect.Request,
		}
		go s.runCheckout(sess, input)
	}
	return st, effect, nil
}

// runCheckout is detached from the request that started it and is never cancelled by
// the user. Its outcome only reaches the wizard that started it.
func (s *portalService) runCheckout(sess *session.Session, input models.CheckoutInput) {
	ctx, cancel := context.WithTimeout(context.Background(), CheckoutTimeout)
	defer cancel()

	result := s.checkout.Run(ctx, input)

	var ev wizard.Event = wizard.BookingFailed{Message: result.Error, Transport: result.Transport}
	outcome := "rejected"
	switch {
	case result.Success:
		ev = wizard.BookingSucceeded{BookingID: result.BookingID}
		outcome = "confirmed"
	case result.Transport:
		outcome = "error"
	}
	s.metrics.Bookings.WithLabelValues(outcome).Inc()

	st, effect, err := sess.DispatchTo(input.WizardID, ev)
	if err != nil {
		s.log.Info("checkout outcome ignored", "session_id", sess.ID(), "wizard_id", input.WizardID, "reason", err)
		return
	}

	if effect.Kind == wizard.EffectComplete {
		s.notifier.PushCheckoutCompleted(sess.ID(), effect.Message, effect.Redirect)
		return
	}
	html, err := s.renderer.WizardHTML(render.NewWizardView(st))
	if err != nil {
		s.log.Error("failed to render wizard", "session_id", sess.ID(), "error", err)
		return
	}
	s.notifier.PushCheckoutFailed(sess.ID(), html)
}

// BookingsPage loads the booking history. Anonymous users get ErrLoginRequired.
func (s *portalService) BookingsPage(ctx context.Context, sess *session.Session, creds apiclient.Credentials) (render.BookingsPage, error) {
	st := s.auth.Status(ctx, creds)
	if !st.Authenticated {
		return render.BookingsPage{}, ErrLoginRequired
	}

	page := render.BookingsPage{
		Nav:   nav.Project(st),
		Flash: sess.TakeFlash(),
	}
	records, err := s.api.BookingHistory(ctx, creds)
	if err != nil {
		s.log.Error("failed to load booking history", "session_id", sess.ID(), "error", err)
		page.Error = "Unable to load your bookings right now"
		return page, nil
	}
	for _, r := range records {
		page.Bookings = append(page.Bookings, render.NewBookingRow(r))
	}
	return page, nil
}

// Logout ends the upstream session and drops the portal session. Upstream failures are
// ignored; the returned cookies should be relayed to the browser.
func (s *portalService) Logout(ctx context.Context, sess *session.Session, creds apiclient.Credentials) []*http.Cookie {
	cookies := s.auth.Logout(ctx, creds)
	s.store.Delete(sess.ID())
	s.log.Info("session logged out", "session_id", sess.ID())
	return cookies
}

func (s *portalService) Attach(conn *gorillaws.Conn, sess *session.Session) {
	s.notifier.Attach(conn, sess.ID())
}
