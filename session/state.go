package session

import "github.com/s0up4200/marquee/tmdb"

// Phase is the session's position in its state machine
type Phase int

const (
	// PhaseIdle means nothing has been loaded yet
	PhaseIdle Phase = iota
	// PhaseLoadingGenres means the genre catalog is being fetched before the first page
	PhaseLoadingGenres
	// PhaseLoading means a page request is in flight
	PhaseLoading
	// PhaseReady means the list is valid and no request is in flight
	PhaseReady
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseLoadingGenres:
		return "LOADING_GENRES"
	case PhaseLoading:
		return "LOADING"
	case PhaseReady:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

// State is a point-in-time copy of a session
type State struct {
	Phase       Phase
	LoadingPage int
	Query       string
	CurrentPage int
	TotalPages  int
	Records     []tmdb.MovieRecord
}

// HasMore reports whether further pages exist
func (s State) HasMore() bool {
	return s.CurrentPage < s.TotalPages
}
