// Package session implements the accumulating list state machine that drives paginated
// listing fetches, merges pages in arrival order and patches late backdrop images into
// already listed records.
//
// All session state is owned by a single control goroutine. Public methods only enqueue
// work for it, so they are safe to call from any goroutine. Listener callbacks run on a
// separate dispatch goroutine, in order, so they may call any method except Close.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/tmdb"
)

// ErrMissingDependency is returned by New when a required collaborator is nil
var ErrMissingDependency = errors.New("session: missing dependency")

// Config selects the listing a session accumulates
type Config struct {
	// Endpoint is the listing path, e.g. tmdb.SearchPath
	Endpoint string
	// Params are sent with every page request
	Params url.Values
}

// Dependencies are the collaborators of a session
type Dependencies struct {
	Pager    tmdb.Pager
	Catalog  tmdb.Catalog
	Images   tmdb.BackdropFetcher // optional
	Listener Listener             // optional
}

// Session is one accumulating list, scoped to one query or listing
type Session struct {
	id       string
	cfg      Config
	pager    tmdb.Pager
	catalog  tmdb.Catalog
	images   tmdb.BackdropFetcher
	listener Listener
	logger   zerolog.Logger
	ctx      context.Context

	// onImage is handed to every backdrop fetch of this session
	onImage tmdb.ImageReadyFunc

	control  *mailbox
	dispatch *mailbox

	// Everything below is owned by the control goroutine.
	records        []tmdb.MovieRecord
	currentPage    int
	totalPages     int
	query          string
	generation     int
	pageInFlight   bool
	loadingPage    int
	genresInFlight bool
	attempted      bool
	pending        int
}

// New creates a session and starts its control goroutine. Nothing is fetched until
// Start, LoadPage or ResetForNewQuery is called.
func New(cfg Config, deps Dependencies, logger zerolog.Logger) (*Session, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint", ErrMissingDependency)
	}
	if deps.Pager == nil {
		return nil, fmt.Errorf("%w: pager", ErrMissingDependency)
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog", ErrMissingDependency)
	}

	listener := deps.Listener
	if listener == nil {
		listener = ListenerFuncs{}
	}

	id := uuid.NewString()
	s := &Session{
		id:          id,
		cfg:         cfg,
		pager:       deps.Pager,
		catalog:     deps.Catalog,
		images:      deps.Images,
		listener:    listener,
		logger:      logger.With().Str("session_id", id).Str("endpoint", cfg.Endpoint).Logger(),
		ctx:         context.Background(),
		control:     newMailbox(),
		dispatch:    newMailbox(),
		records:     []tmdb.MovieRecord{},
		currentPage: 1,
		totalPages:  1,
	}
	s.onImage = func(recordID int, img image.Image) {
		s.OnImagePatched(recordID, img)
	}

	return s, nil
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Start begins a listing for query (empty for listings without a query). The genre
// catalog is loaded first when it has not been loaded yet. A Start while the catalog is
// loading replaces the query that follows it.
func (s *Session) Start(query string) {
	s.post(func() { s.start(query) })
}

// LoadPage requests one page and appends it to the list on success. Like every page
// request it waits for the genre catalog.
func (s *Session) LoadPage(page int) {
	s.post(func() { s.loadPage(page, false) })
}

// RequestNextPageIfNeeded loads the next page when visibleIndex is the last record and
// more pages exist. It never overlaps an in-flight load.
func (s *Session) RequestNextPageIfNeeded(visibleIndex int) {
	s.post(func() { s.requestNextPageIfNeeded(visibleIndex) })
}

// ResetForNewQuery clears the list and loads page 1 of query. When the genre catalog has
// not been loaded yet it is loaded first, as in Start.
func (s *Session) ResetForNewQuery(query string) {
	s.post(func() { s.start(query) })
}

// OnImagePatched replaces the backdrop image of the first record with recordID
func (s *Session) OnImagePatched(recordID int, img image.Image) {
	s.post(func() { s.patchImage(recordID, img) })
}

// Snapshot returns a copy of the state after all previously posted work has run. After
// Close it returns the final state.
func (s *Session) Snapshot() State {
	result := make(chan State, 1)
	if s.post(func() { result <- s.state() }) {
		select {
		case st := <-result:
			return st
		case <-s.control.done:
		}
	}

	<-s.control.done
	select {
	case st := <-result:
		return st
	default:
		return s.state()
	}
}

// Close stops the session after queued work and pending listener callbacks have run.
// In-flight requests are not cancelled; their results are dropped. Close must not be
// called from a Listener callback.
func (s *Session) Close() {
	s.control.close()
	s.dispatch.close()
}

func (s *Session) post(fn func()) bool {
	return s.control.post(fn)
}

// notify hands a listener call to the dispatch goroutine
func (s *Session) notify(fn func(Listener)) {
	listener := s.listener
	s.dispatch.post(func() { fn(listener) })
}

func (s *Session) state() State {
	records := make([]tmdb.MovieRecord, len(s.records))
	copy(records, s.records)

	st := State{
		Phase:       s.phase(),
		Query:       s.query,
		CurrentPage: s.currentPage,
		TotalPages:  s.totalPages,
		Records:     records,
	}
	if s.pageInFlight {
		st.LoadingPage = s.loadingPage
	}
	return st
}

func (s *Session) phase() Phase {
	switch {
	case s.genresInFlight:
		return PhaseLoadingGenres
	case s.pageInFlight:
		return PhaseLoading
	case s.attempted:
		return PhaseReady
	default:
		return PhaseIdle
	}
}

func (s *Session) start(query string) {
	s.resetList(query)
	s.loadPage(1, true)
}

// loadGenres fetches the catalog; the pending page is loaded once it succeeds
func (s *Session) loadGenres() {
	s.genresInFlight = true
	s.logger.Debug().Msg("Loading genre catalog")

	go func() {
		err := s.catalog.Load(s.ctx)
		s.post(func() { s.finishGenres(err) })
	}()
}

func (s *Session) finishGenres(err error) {
	s.genresInFlight = false

	page := s.pending
	if page == 0 {
		page = 1
	}
	s.pending = 0

	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load genre catalog")
		generation := s.generation
		retry := func() {
			s.post(func() {
				if generation != s.generation {
					s.logger.Debug().Msg("Ignoring genre retry from a previous query")
					return
				}
				s.loadPage(page, true)
			})
		}
		s.notify(func(l Listener) {
			l.OnError("Could not load the movie genres. Try again.", retry)
		})
		return
	}

	s.loadPage(page, false)
}

// resetList clears the list. Results of requests issued before the reset are discarded.
func (s *Session) resetList(query string) {
	s.records = []tmdb.MovieRecord{}
	s.currentPage = 1
	s.totalPages = 1
	s.query = query
	s.generation++
	s.pending = 0
}

// loadPage issues a page request, loading the genre catalog first when it has not been
// loaded. When a request is already in flight the call is dropped, unless queue is set,
// in which case it runs once the in-flight request has finished.
func (s *Session) loadPage(page int, queue bool) {
	if s.genresInFlight {
		if queue {
			s.pending = page
		}
		s.logger.Debug().Int("page", page).Bool("queued", queue).Msg("Genre load in flight")
		return
	}
	if !s.catalog.Loaded() {
		s.pending = page
		s.loadGenres()
		return
	}
	if s.pageInFlight {
		if queue {
			s.pending = page
			s.logger.Debug().Int("page", page).Int("in_flight", s.loadingPage).Msg("Queued page behind in-flight request")
			return
		}
		s.logger.Debug().Int("page", page).Int("in_flight", s.loadingPage).Msg("Page request already in flight")
		return
	}

	s.pageInFlight = true
	s.loadingPage = page
	s.attempted = true

	generation := s.generation
	params := s.params()

	s.logger.Debug().Int("page", page).Str("query", s.query).Msg("Loading page")

	go func() {
		result, err := s.pager.FetchPage(s.ctx, s.cfg.Endpoint, params, page)
		s.post(func() { s.finishPage(generation, page, result, err) })
	}()
}

func (s *Session) finishPage(generation, page int, result *tmdb.ResultPage, err error) {
	s.pageInFlight = false
	s.loadingPage = 0

	if generation != s.generation {
		s.logger.Debug().Int("page", page).Msg("Discarding page from a previous query")
		if next := s.pending; next != 0 {
			s.pending = 0
			s.loadPage(next, false)
		}
		return
	}

	if err != nil {
		s.logger.Warn().Err(err).Int("page", page).Msg("Failed to load page")
		retry := func() {
			s.post(func() {
				if generation != s.generation {
					s.logger.Debug().Int("page", page).Msg("Ignoring page retry from a previous query")
					return
				}
				s.loadPage(page, false)
			})
		}
		message := fmt.Sprintf("Could not load page %d of the movie list. Try again.", page)
		s.notify(func(l Listener) { l.OnError(message, retry) })
		return
	}

	s.records = append(s.records, result.Records...)
	s.currentPage = result.PageNumber
	s.totalPages = result.TotalPages

	s.logger.Debug().
		Int("page", s.currentPage).
		Int("total_pages", s.totalPages).
		Int("records", len(s.records)).
		Msg("Merged page")

	records := make([]tmdb.MovieRecord, len(s.records))
	copy(records, s.records)
	currentPage, totalPages := s.currentPage, s.totalPages
	s.notify(func(l Listener) { l.OnListChanged(records, currentPage, totalPages) })

	if s.images == nil {
		return
	}
	for _, record := range result.Records {
		if record.HasBackdrop() {
			s.images.FetchBackdrop(s.ctx, record, s.onImage)
		}
	}
}

func (s *Session) requestNextPageIfNeeded(visibleIndex int) {
	if visibleIndex != len(s.records)-1 || s.currentPage >= s.totalPages {
		return
	}
	if s.pageInFlight || s.genresInFlight {
		return
	}
	s.loadPage(s.currentPage+1, false)
}

func (s *Session) patchImage(recordID int, img image.Image) {
	for i := range s.records {
		if s.records[i].ID == recordID {
			s.records[i].BackdropImage = img
			s.notify(func(l Listener) { l.OnImageUpdated(recordID) })
			return
		}
	}
	s.logger.Debug().Int("movie_id", recordID).Msg("No record for patched image")
}

func (s *Session) params() url.Values {
	params := url.Values{}
	for k, v := range s.cfg.Params {
		params[k] = append([]string(nil), v...)
	}
	if s.query != "" {
		params.Set("query", s.query)
	}
	return params
}
