package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/gamelog/internal/models"
)

var (
	_ list.Item = gameItem{}
	_ list.Item = resultItem{}
)

// gameItem wraps [models.Game] to implement [list.Item].
type gameItem struct {
	game models.Game
}

func (i gameItem) FilterValue() string { return i.game.Title }
func (i gameItem) Title() string       { return i.game.Title }
func (i gameItem) Description() string {
	return fmt.Sprintf("%s • %s", i.game.Year(), styles.Badge(i.game.Status))
}

// resultItem wraps [models.SearchResult] to implement [list.Item].
type resultItem struct {
	result models.SearchResult
	adding bool
}

func (i resultItem) FilterValue() string { return i.result.Title }
func (i resultItem) Title() string       { return i.result.Title }
func (i resultItem) Description() string {
	year := "N/A"
	if i.result.ReleaseYear != 0 {
		year = fmt.Sprintf("%d", i.result.ReleaseYear)
	}
	switch {
	case i.adding:
		return fmt.Sprintf("%s • adding…", year)
	case i.result.InLibrary:
		return fmt.Sprintf("%s • %s", year, styles.ok.Render("in library"))
	default:
		return year
	}
}

func gameItems(games []models.Game) []list.Item {
	items := make([]list.Item, len(games))
	for i, g := range games {
		items[i] = gameItem{game: g}
	}
	return items
}

func resultItems(results []models.SearchResult, adding bool, addingID int64) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = resultItem{result: r, adding: adding && r.ExternalAPIID == addingID}
	}
	return items
}

func newList(title string, items []list.Item, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}
