package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
)

type collectionView struct {
	list      list.Model
	filter    textinput.Model
	filtering bool
}

func newCollectionView(filter string, width, height int) *collectionView {
	in := newInput("filter by title", false)
	in.Prompt = "/ "
	in.SetValue(filter)
	return &collectionView{
		list:   newList("My Library", nil, width-4, height-8),
		filter: in,
	}
}

func (c *collectionView) setGames(games []models.Game) {
	c.list.SetItems(gameItems(games))
}

func (c *collectionView) selected() (models.Game, bool) {
	if item, ok := c.list.SelectedItem().(gameItem); ok {
		return item.game, true
	}
	return models.Game{}, false
}

func (m *Model) updateCollection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.collection

	if c.filtering {
		switch {
		case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
			c.filtering = false
			c.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		c.filter, cmd = c.filter.Update(msg)
		m.store.SetFilter(c.filter.Value())
		m.show(m.store.Snapshot())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.filter):
		c.filtering = true
		return m, c.filter.Focus()
	case key.Matches(msg, m.keys.back):
		if c.filter.Value() != "" {
			c.filter.SetValue("")
			m.store.SetFilter("")
			m.show(m.store.Snapshot())
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if g, ok := c.selected(); ok {
			return m, m.navigate(session.EntryPath(g.ID))
		}
		return m, nil
	case key.Matches(msg, m.keys.search):
		return m, m.navigate(session.PathSearch)
	case key.Matches(msg, m.keys.refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	}

	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return m, cmd
}

func (m *Model) renderCollection() string {
	c := m.collection
	snap := m.store.Snapshot()

	status := fmt.Sprintf("%d of %d games", len(snap.Visible()), len(snap.Games))
	if snap.Loading {
		status = m.busy("Loading library…")
	}

	filter := styles.help.Render("press / to filter")
	if c.filtering || c.filter.Value() != "" {
		filter = c.filter.View()
	}

	keys := []key.Binding{m.keys.enter, m.keys.filter, m.keys.search, m.keys.refresh, m.keys.logout, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", filter, status, c.list.View(), m.help.ShortHelpView(keys))
}
