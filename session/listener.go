package session

import "github.com/s0up4200/marquee/tmdb"

// Listener is the presentation side of a session. Calls are made one at a time, in order,
// from the session's dispatch goroutine. Callbacks may call any session method except
// Close.
type Listener interface {
	// OnListChanged delivers a copy of the accumulated records after a page was merged
	OnListChanged(records []tmdb.MovieRecord, currentPage, totalPages int)

	// OnError reports a failed operation. retry repeats exactly that operation.
	OnError(message string, retry func())

	// OnImageUpdated reports that a record's backdrop image was patched
	OnImageUpdated(recordID int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are ignored.
type ListenerFuncs struct {
	ListChanged  func(records []tmdb.MovieRecord, currentPage, totalPages int)
	Error        func(message string, retry func())
	ImageUpdated func(recordID int)
}

// OnListChanged implements Listener
func (l ListenerFuncs) OnListChanged(records []tmdb.MovieRecord, currentPage, totalPages int) {
	if l.ListChanged != nil {
		l.ListChanged(records, currentPage, totalPages)
	}
}

// OnError implements Listener
func (l ListenerFuncs) OnError(message string, retry func()) {
	if l.Error != nil {
		l.Error(message, retry)
	}
}

// OnImageUpdated implements Listener
func (l ListenerFuncs) OnImageUpdated(recordID int) {
	if l.ImageUpdated != nil {
		l.ImageUpdated(recordID)
	}
}
