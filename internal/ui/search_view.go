package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/catalog"
	"github.com/desertthunder/gamelog/internal/session"
)

type searchView struct {
	input     textinput.Model
	list      list.Model
	results   *catalog.Results
	inList    bool
	searching bool
	adding    bool
	addingID  int64
}

func newSearchView(backend catalog.Backend, store catalog.Refresher, logger *log.Logger, width, height int) *searchView {
	in := newInput("search the catalog", false)
	in.Prompt = "? "
	return &searchView{
		input:   in,
		list:    newList("Results", nil, width-4, height-10),
		results: catalog.NewResults(backend, store, logger),
	}
}

func (s *searchView) focus() tea.Cmd {
	s.inList = false
	return s.input.Focus()
}

func (s *searchView) sync() {
	s.list.SetItems(resultItems(s.results.Results(), s.adding, s.addingID))
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.search

	if key.Matches(msg, m.keys.back) {
		return m, m.navigate(session.PathCollection)
	}

	if key.Matches(msg, m.keys.tab) {
		if s.inList {
			return m, s.focus()
		}
		s.inList = true
		s.input.Blur()
		return m, nil
	}

	if !s.inList {
		if key.Matches(msg, m.keys.enter) {
			query := strings.TrimSpace(s.input.Value())
			if query == "" || s.searching {
				return m, nil
			}
			s.searching = true
			return m, m.searchCmd(query)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		item, ok := s.list.SelectedItem().(resultItem)
		if !ok || item.result.InLibrary || s.adding {
			return m, nil
		}
		s.adding, s.addingID = true, item.result.ExternalAPIID
		s.sync()
		return m, m.addCmd(item.result.ExternalAPIID)
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return m, cmd
}

func (m *Model) searchCmd(query string) tea.Cmd {
	ctx, gen, results := m.viewCtx, m.gen, m.search.results
	return func() tea.Msg {
		return searchDoneMsg{gen: gen, err: results.Search(ctx, query)}
	}
}

func (m *Model) searched(_ searchDoneMsg) (tea.Model, tea.Cmd) {
	s := m.search
	s.searching = false
	s.sync()
	if len(s.results.Results()) > 0 {
		s.inList = true
		s.input.Blur()
	}
	return m, nil
}

func (m *Model) addCmd(externalID int64) tea.Cmd {
	ctx, gen, results := m.viewCtx, m.gen, m.search.results
	return func() tea.Msg {
		_, err := results.Add(ctx, externalID)
		return addDoneMsg{gen: gen, externalID: externalID, err: err}
	}
}

func (m *Model) added(_ addDoneMsg) (tea.Model, tea.Cmd) {
	m.search.adding, m.search.addingID = false, 0
	m.search.sync()
	return m, nil
}

func (m *Model) renderSearch() string {
	s := m.search

	status := ""
	switch {
	case s.searching:
		status = m.busy("Searching…")
	case s.results.Query() != "":
		status = fmt.Sprintf("%d results for %q", len(s.results.Results()), s.results.Query())
	}

	keys := []key.Binding{m.keys.enter, m.keys.tab, m.keys.back}
	if s.inList {
		keys = []key.Binding{m.keys.up, m.keys.down, m.keys.add, m.keys.tab, m.keys.back, m.keys.quit}
	}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", styles.title.Render("Search"), s.input.View()+"\n"+status,
		s.list.View(), m.help.ShortHelpView(keys))
}
