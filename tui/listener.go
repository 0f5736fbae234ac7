package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/marquee/tmdb"
)

type listChangedMsg struct {
	records     []tmdb.MovieRecord
	currentPage int
	totalPages  int
}

type errorMsg struct {
	message string
	retry   func()
}

type imageUpdatedMsg struct {
	recordID int
}

// sender is the part of *tea.Program the listener needs
type sender interface {
	Send(msg tea.Msg)
}

// Listener forwards session callbacks into a running program as messages. Callbacks that
// arrive before a program is attached are dropped.
type Listener struct {
	mu      sync.RWMutex
	program sender
}

// Attach connects the listener to a program
func (l *Listener) Attach(p sender) {
	l.mu.Lock()
	l.program = p
	l.mu.Unlock()
}

func (l *Listener) send(msg tea.Msg) {
	l.mu.RLock()
	p := l.program
	l.mu.RUnlock()

	if p != nil {
		p.Send(msg)
	}
}

func (l *Listener) OnListChanged(records []tmdb.MovieRecord, currentPage, totalPages int) {
	l.send(listChangedMsg{records: records, currentPage: currentPage, totalPages: totalPages})
}

func (l *Listener) OnError(message string, retry func()) {
	l.send(errorMsg{message: message, retry: retry})
}

func (l *Listener) OnImageUpdated(recordID int) {
	l.send(imageUpdatedMsg{recordID: recordID})
}
