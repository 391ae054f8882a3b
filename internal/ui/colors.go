package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/gamelog/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// statusColors assigns each status its badge color.
var statusColors = map[models.Status]string{
	models.StatusWantToPlay: "#3B82F6",
	models.StatusPlaying:    "#04B575",
	models.StatusCompleted:  "#7D56F4",
	models.StatusAbandoned:  "#FF0000",
}

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Badge renders a status label in its color.
func (p *Palette) Badge(s models.Status) string {
	color, ok := statusColors[s]
	if !ok {
		return p.help.Render(s.Label())
	}
	return NewBold(color).Render(s.Label())
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
