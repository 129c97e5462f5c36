// Package session holds per-browser portal state. A Session is the only owner of the last
// result set, the filter settings and the live booking wizard; every read and write goes
// through its mutex.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/debounce"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/filter"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/wizard"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
)

var (
	ErrNoWizard    = errors.New("no booking in progress")
	ErrStaleWizard = errors.New("booking attempt is no longer active")
)

// SearchStatus is the outcome of the most recent applied search
type SearchStatus int

const (
	SearchIdle SearchStatus = iota
	SearchResults
	SearchEmpty
	SearchFailed
)

// SearchState is the search area of the page
type SearchState struct {
	Query   models.SearchQuery
	Status  SearchStatus
	Results []models.FlightSearchResult
	Notice  string
}

// ShowFilters reports whether the filter panel is visible
func (s SearchState) ShowFilters() bool {
	return s.Status == SearchResults
}

// Session is one browser's portal state
type Session struct {
	id string

	mu       sync.Mutex
	lastSeen time.Time
	seq      uint64
	search   SearchState
	filters  filter.State
	wizard   *wizard.State
	flash    string

	debouncer *debounce.Debouncer
}

func newSession(id string, now time.Time, debounceDelay time.Duration) *Session {
	return &Session{
		id:        id,
		lastSeen:  now,
		filters:   filter.Default(),
		debouncer: debounce.New(debounceDelay),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// BeginSearch records q as the current query and returns its sequence number.
// Only the result carrying the latest sequence is ever applied.
func (s *Session) BeginSearch(q models.SearchQuery) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.search.Query = q
	return s.seq
}

// FinishSearch applies st if seq is still the latest search. A successful search with
// results resets the filters to their defaults. It reports whether st was applied.
func (s *Session) FinishSearch(seq uint64, st SearchState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	st.Query = s.search.Query
	if st.Status != SearchResults {
		st.Results = nil
	} else {
		s.filters = filter.Default()
	}
	s.search = st
	return true
}

// RejectSearch shows a validation notice without issuing a request. Any search still in
// flight is invalidated. Status, results and filters stay as they were.
func (s *Session) RejectSearch(q models.SearchQuery, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.search.Query = q
	s.search.Notice = notice
}

// Search returns a copy of the search area
func (s *Session) Search() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.search
	out.Results = append([]models.FlightSearchResult(nil), s.search.Results...)
	return out
}

// Visible returns the stored results narrowed and ordered by the current filters
func (s *Session) Visible() ([]models.FlightSearchResult, filter.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.search.Results, s.filters), s.filters
}

// FindResult looks a flight up in the stored result set
func (s *Session) FindResult(id int64) (models.FlightSearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.search.Results {
		if f.ID == id {
			return f, true
		}
	}
	return models.FlightSearchResult{}, false
}

// Filters returns the current filter settings
func (s *Session) Filters() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilters replaces the filter settings
func (s *Session) SetFilters(fs filter.State) {
	s.mu.Lock()
	s.filters = fs
	s.mu.Unlock()
}

// ResetFilters restores the reset defaults and returns them
func (s *Session) ResetFilters() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debouncer.Stop()
	s.filters = filter.Reset()
	return s.filters
}

// SetPriceBounds replaces only the price bounds, keeping bucket and sort
func (s *Session) SetPriceBounds(minPrice, maxPrice filter.Bound) {
	s.mu.Lock()
	s.filters.MinPrice = minPrice
	s.filters.MaxPrice = maxPrice
	s.mu.Unlock()
}

// Debounce schedules fn on the session's filter debouncer
func (s *Session) Debounce(fn func()) {
	s.debouncer.Trigger(fn)
}

// CancelDebounce drops a pending debounced call. It reports whether one was pending.
func (s *Session) CancelDebounce() bool {
	return s.debouncer.Stop()
}

// OpenWizard makes st the live booking attempt, replacing any previous one. A wizard
// whose payment is in progress cannot be replaced: it keeps a notice and
// wizard.ErrCheckoutInProgress is returned.
func (s *Session) OpenWizard(st wizard.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard != nil && s.wizard.Step == wizard.StepSuccess {
		s.wizard.Notice = wizard.UserMessage(wizard.ErrCheckoutInProgress)
		return wizard.ErrCheckoutInProgress
	}
	s.wizard = &st
	return nil
}

// Wizard returns the live booking attempt
func (s *Session) Wizard() (wizard.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil {
		return wizard.State{}, false
	}
	return *s.wizard, true
}

// Dispatch applies ev to the live wizard
func (s *Session) Dispatch(ev wizard.Event) (wizard.State, wizard.Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil {
		return wizard.State{}, wizard.Effect{}, ErrNoWizard
	}
	return s.apply(ev)
}

// DispatchTo applies ev only if the wizard identified by id is still live. Checkout
// outcomes use it so that a dismissed or replaced attempt is never touched.
func (s *Session) DispatchTo(id string, ev wizard.Event) (wizard.State, wizard.Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil || s.wizard.ID != id {
		return wizard.State{}, wizard.Effect{}, ErrStaleWizard
	}
	return s.apply(ev)
}

func (s *Session) apply(ev wizard.Event) (wizard.State, wizard.Effect, error) {
	next, effect, err := wizard.Next(*s.wizard, ev)
	switch effect.Kind {
	case wizard.EffectComplete:
		s.wizard = nil
		s.flash = effect.Message
	case wizard.EffectDismiss:
		s.wizard = nil
	default:
		s.wizard = &next
	}
	return next, effect, err
}

// SetFlash stores a one-shot message for the next page render
func (s *Session) SetFlash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

// TakeFlash returns and clears the one-shot message
func (s *Session) TakeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

func (s *Session) close() {
	s.debouncer.Stop()
}
