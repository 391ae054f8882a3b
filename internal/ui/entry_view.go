package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/library"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
)

type entryView struct {
	entry      *library.Entry
	cursor     int
	touched    bool
	confirming bool

	mu     sync.Mutex
	target string
}

func newEntryView(id int64, store *library.Store, backend library.Mutator, logger *log.Logger) *entryView {
	v := &entryView{}
	v.entry = library.NewEntry(id, store, backend, library.EntryOpts{
		Confirmer: library.AlwaysConfirm,
		Navigator: library.NavigateFunc(v.navigate),
		Logger:    logger,
	})
	return v
}

// navigate runs on the command goroutine; the path is picked up when the removal completes.
func (v *entryView) navigate(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.target = path
}

func (v *entryView) takeTarget() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	t := v.target
	v.target = ""
	return t
}

// selection returns the highlighted status, defaulting to the entry's current one.
func (v *entryView) selection(game models.Game) int {
	if v.touched {
		return v.cursor
	}
	for i, s := range models.Statuses() {
		if s == game.Status {
			return i
		}
	}
	return 0
}

func (m *Model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.entry
	game, found := v.entry.Game()

	if v.confirming {
		switch {
		case key.Matches(msg, m.keys.yes):
			v.confirming = false
			return m, m.removeCmd()
		case key.Matches(msg, m.keys.no):
			v.confirming = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		return m, m.navigate(session.PathCollection)
	}

	if !found || v.entry.Updating() || v.entry.Deleting() {
		return m, nil
	}

	statuses := models.Statuses()
	switch {
	case key.Matches(msg, m.keys.up):
		v.cursor = (v.selection(game) + len(statuses) - 1) % len(statuses)
		v.touched = true
	case key.Matches(msg, m.keys.down):
		v.cursor = (v.selection(game) + 1) % len(statuses)
		v.touched = true
	case key.Matches(msg, m.keys.enter):
		status := statuses[v.selection(game)]
		if status == game.Status {
			return m, nil
		}
		return m, m.statusCmd(status)
	case key.Matches(msg, m.keys.remove):
		v.confirming = true
	}
	return m, nil
}

func (m *Model) statusCmd(status models.Status) tea.Cmd {
	ctx, gen, entry := m.viewCtx, m.gen, m.entry.entry
	return func() tea.Msg {
		return statusDoneMsg{gen: gen, err: entry.ChangeStatus(ctx, status)}
	}
}

func (m *Model) removeCmd() tea.Cmd {
	ctx, gen, entry := m.viewCtx, m.gen, m.entry.entry
	return func() tea.Msg {
		removed, err := entry.Remove(ctx)
		return removeDoneMsg{gen: gen, removed: removed, err: err}
	}
}

func (m *Model) removed(msg removeDoneMsg) (tea.Model, tea.Cmd) {
	if target := m.entry.takeTarget(); msg.removed && target != "" {
		return m, m.navigate(target)
	}
	return m, nil
}

func (m *Model) renderEntry() string {
	v := m.entry
	game, found := v.entry.Game()
	if !found {
		if m.store.Loading() {
			return m.busy("Loading…")
		}
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("Game not found or loading..."),
			m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(game.Title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Released: %s\n", game.Year()))
	if genres := game.GenreList(); len(genres) > 0 {
		b.WriteString(fmt.Sprintf("Genres: %s\n", strings.Join(genres, ", ")))
	}
	if platforms := game.PlatformList(); len(platforms) > 0 {
		b.WriteString(fmt.Sprintf("Platforms: %s\n", strings.Join(platforms, ", ")))
	}

	b.WriteString("\nMy Status\n")
	sel := v.selection(game)
	for i, s := range models.Statuses() {
		marker := "  "
		if i == sel {
			marker = "> "
		}
		label := s.Label()
		if s == game.Status {
			label = styles.Badge(s)
		}
		b.WriteString(marker + label + "\n")
	}
	b.WriteString("\n")

	switch {
	case v.entry.Updating():
		b.WriteString(m.busy("Saving status…"))
	case v.entry.Deleting():
		b.WriteString(m.busy("Removing…"))
	case v.confirming:
		b.WriteString(styles.warn.Render("Are you sure you want to remove this game from your library?"))
		b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
	default:
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.remove, m.keys.back}))
	}
	return b.String()
}
