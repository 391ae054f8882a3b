package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/library"
	"github.com/desertthunder/gamelog/internal/services"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SignInView ViewState = iota
	SignUpView
	CollectionView
	EntryView
	SearchView
)

func (v ViewState) String() string {
	switch v {
	case SignUpView:
		return "sign-up"
	case CollectionView:
		return "collection"
	case EntryView:
		return "entry"
	case SearchView:
		return "search"
	default:
		return "sign-in"
	}
}

// Opts contains the dependencies of a [Model].
type Opts struct {
	Backend     services.Backend
	Credentials *session.Credentials
	Logger      *log.Logger
	// Start is the first path to navigate to; defaults to the collection.
	Start string
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	backend services.Backend
	creds   *session.Credentials
	gate    session.Gate
	logger  *log.Logger
	send    func(tea.Msg)
	start   string

	view    ViewState
	path    string
	viewCtx context.Context
	cancel  context.CancelFunc
	gen     uint64

	store       *library.Store
	unsubscribe func()
	shown       uint64 // version of the last store snapshot rendered

	signIn     *authForm
	signUp     *authForm
	collection *collectionView
	entry      *entryView
	search     *searchView

	width   int
	height  int
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Opts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Start == "" {
		opts.Start = session.PathCollection
	}
	return &Model{
		ctx:     ctx,
		backend: opts.Backend,
		creds:   opts.Credentials,
		gate:    session.NewGate(),
		logger:  shared.WithLogger(opts.Logger, "component", "tui"),
		start:   opts.Start,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
		width:   80,
		height:  24,
	}
}

// SetSender connects store snapshots to the running program, usually [tea.Program.Send].
//
// Must be called before [tea.Program.Run].
func (m *Model) SetSender(send func(tea.Msg)) { m.send = send }

// Current returns the current view.
func (m *Model) Current() ViewState { return m.view }

// Path returns the path of the current view.
func (m *Model) Path() string { return m.path }

// Store returns the library store of the authenticated section, or nil when signed out.
func (m *Model) Store() *library.Store { return m.store }

// Init navigates to the start path.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.navigate(m.start), m.spinner.Tick)
}

// navigate tears down the current view and mounts the one at path, after consulting the gate.
func (m *Model) navigate(path string) tea.Cmd {
	if d := m.gate.Check(path, m.creds.Present()); d != session.Allow {
		m.logger.Debug("gate redirect", "from", path, "to", d.Target())
		path = d.Target()
	}

	m.teardown()
	m.signIn, m.signUp, m.collection, m.entry, m.search = nil, nil, nil, nil, nil
	m.gen++
	m.viewCtx, m.cancel = context.WithCancel(m.ctx)
	m.path = path

	switch {
	case path == session.PathSignIn:
		m.view = SignInView
		m.signIn = newSignInForm()
		return m.signIn.focus()

	case path == session.PathSignUp:
		m.view = SignUpView
		m.signUp = newSignUpForm()
		return m.signUp.focus()

	case path == session.PathCollection:
		m.mountLibrary()
		m.view = CollectionView
		m.collection = newCollectionView(m.store.Filter(), m.width, m.height)
		m.show(m.store.Snapshot())
		return m.loadCmd()

	case strings.HasPrefix(path, session.PathEntry+"/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(path, session.PathEntry+"/"), 10, 64)
		if err != nil {
			return m.navigate(session.PathCollection)
		}
		m.mountLibrary()
		m.view = EntryView
		m.entry = newEntryView(id, m.store, m.backend, m.logger)
		return m.loadCmd()

	case path == session.PathSearch:
		m.mountLibrary()
		m.view = SearchView
		m.search = newSearchView(m.backend, m.store, m.logger, m.width, m.height)
		return m.search.focus()
	}

	return m.navigate(session.PathCollection)
}

// teardown cancels the current view's context.
func (m *Model) teardown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// mountLibrary creates the store for the authenticated section on first use.
func (m *Model) mountLibrary() {
	if m.store != nil {
		return
	}
	store := library.NewStore(m.backend, m.logger)
	m.store = store
	m.shown = 0
	if send := m.send; send != nil {
		m.unsubscribe = store.Subscribe(func(s library.Snapshot) {
			go send(snapshotMsg{store: store, snap: s})
		})
	}
}

// show renders snap in the collection view unless a newer snapshot is already shown.
// Snapshots are delivered from separate goroutines and may arrive out of order.
func (m *Model) show(snap library.Snapshot) {
	if snap.Version < m.shown {
		return
	}
	m.shown = snap.Version
	if m.collection != nil {
		m.collection.setGames(snap.Visible())
	}
}

func (m *Model) unmountLibrary() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.store = nil
}

func (m *Model) logout() tea.Cmd {
	if err := m.creds.Clear(m.ctx); err != nil {
		m.logger.Error("failed to clear credential", "error", err)
	}
	m.unmountLibrary()
	return m.navigate(session.PathSignIn)
}

func (m *Model) loadCmd() tea.Cmd {
	ctx, gen, store := m.viewCtx, m.gen, m.store
	return func() tea.Msg {
		return loadDoneMsg{gen: gen, err: store.Load(ctx)}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	ctx, gen, store := m.viewCtx, m.gen, m.store
	return func() tea.Msg {
		return loadDoneMsg{gen: gen, err: store.Refresh(ctx)}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if g, ok := msg.(generational); ok && g.generation() != m.gen {
		m.logger.Debug("dropping stale completion", "msg", fmt.Sprintf("%T", msg), "gen", g.generation(), "current", m.gen)
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.abort) {
			m.teardown()
			return m, tea.Quit
		}
		switch m.view {
		case SignInView:
			return m.updateSignIn(msg)
		case SignUpView:
			return m.updateSignUp(msg)
		case CollectionView:
			return m.updateCollection(msg)
		case EntryView:
			return m.updateEntry(msg)
		case SearchView:
			return m.updateSearch(msg)
		}
		return m, nil

	case snapshotMsg:
		if msg.store == m.store {
			m.show(msg.snap)
		}
		return m, nil

	case loginDoneMsg:
		return m.signedIn(msg)
	case registerDoneMsg:
		return m.registered(msg)
	case loadDoneMsg:
		if m.store != nil {
			m.show(m.store.Snapshot())
		}
		return m, nil
	case statusDoneMsg:
		return m, nil
	case removeDoneMsg:
		return m.removed(msg)
	case searchDoneMsg:
		return m.searched(msg)
	case addDoneMsg:
		return m.added(msg)
	}

	return m, nil
}

func (m *Model) resize() {
	if m.collection != nil {
		m.collection.list.SetSize(m.width-4, m.height-8)
	}
	if m.search != nil {
		m.search.list.SetSize(m.width-4, m.height-10)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SignInView:
		return m.renderSignIn()
	case SignUpView:
		return m.renderSignUp()
	case CollectionView:
		return m.renderCollection()
	case EntryView:
		return m.renderEntry()
	case SearchView:
		return m.renderSearch()
	default:
		return ""
	}
}

func (m *Model) busy(label string) string {
	return fmt.Sprintf("%s %s", m.spinner.View(), label)
}
