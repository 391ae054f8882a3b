package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gamelog/internal/library"
)

// generational is implemented by completion messages. Messages from an older mount are dropped.
type generational interface {
	generation() uint64
}

var (
	_ generational = loginDoneMsg{}
	_ generational = registerDoneMsg{}
	_ generational = loadDoneMsg{}
	_ generational = statusDoneMsg{}
	_ generational = removeDoneMsg{}
	_ generational = searchDoneMsg{}
	_ generational = addDoneMsg{}
	_ tea.Msg      = snapshotMsg{}
)

// loginDoneMsg reports a sign-in attempt. The token is already stored when err is nil.
type loginDoneMsg struct {
	gen uint64
	err error
}

func (m loginDoneMsg) generation() uint64 { return m.gen }

type registerDoneMsg struct {
	gen uint64
	err error
}

func (m registerDoneMsg) generation() uint64 { return m.gen }

type loadDoneMsg struct {
	gen uint64
	err error
}

func (m loadDoneMsg) generation() uint64 { return m.gen }

type statusDoneMsg struct {
	gen uint64
	err error
}

func (m statusDoneMsg) generation() uint64 { return m.gen }

type removeDoneMsg struct {
	gen     uint64
	removed bool
	err     error
}

func (m removeDoneMsg) generation() uint64 { return m.gen }

type searchDoneMsg struct {
	gen uint64
	err error
}

func (m searchDoneMsg) generation() uint64 { return m.gen }

type addDoneMsg struct {
	gen        uint64
	externalID int64
	err        error
}

func (m addDoneMsg) generation() uint64 { return m.gen }

// snapshotMsg carries a library store change.
type snapshotMsg struct {
	store *library.Store
	snap  library.Snapshot
}
