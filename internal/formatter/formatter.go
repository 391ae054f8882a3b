// package formatter exports the game collection to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
func Formats() []Format { return []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON} }

// ParseFormat accepts a format name; "markdown" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: format %q (expected csv, md, txt or json)", shared.ErrInvalidFlag, s)
}

// Export is a rendered view of the collection.
type Export struct {
	Filter      string        `json:"filter,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Games       []models.Game `json:"games"`
}

// NewExport wraps games with a generation time.
func NewExport(games []models.Game, filter string) *Export {
	if games == nil {
		games = []models.Game{}
	}
	return &Export{Filter: filter, GeneratedAt: time.Now().UTC(), Games: games}
}

// ExportToCSV converts an Export to CSV with columns: ID, External ID, Title, Year, Status, Genres, Platforms
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "External ID", "Title", "Year", "Status", "Genres", "Platforms"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, game := range export.Games {
		year := ""
		if game.ReleaseYear != 0 {
			year = strconv.Itoa(game.ReleaseYear)
		}
		record := []string{
			strconv.FormatInt(game.ID, 10),
			strconv.FormatInt(game.ExternalAPIID, 10),
			game.Title,
			year,
			game.Status.Name(),
			game.Genres,
			game.Platforms,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to Markdown with one section per status
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Game Library\n\n")
	if export.Filter != "" {
		buf.WriteString(fmt.Sprintf("**Filter**: %s\n\n", export.Filter))
	}
	buf.WriteString(fmt.Sprintf("**Games**: %d\n\n", len(export.Games)))

	for _, status := range models.Statuses() {
		games := byStatus(export.Games, status)
		if len(games) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s (%d)\n\n", status.Label(), len(games)))
		for _, game := range games {
			buf.WriteString(fmt.Sprintf("- **%s** (%s)", game.Title, game.Year()))
			if game.Platforms != "" {
				buf.WriteString(fmt.Sprintf(" - %s", game.Platforms))
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Games: %d\n", len(export.Games)))
	if export.Filter != "" {
		buf.WriteString(fmt.Sprintf("Filter: %s\n", export.Filter))
	}
	buf.WriteString("\n")

	for i, game := range export.Games {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [%s]\n", i+1, game.Title, game.Year(), game.Status.Label()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts an Export to indented JSON
func ExportToJSON(export *Export) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// Render converts export to format.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	}
	return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidFlag, format)
}

// Write renders export to w.
func Write(w io.Writer, export *Export, format Format) error {
	data, err := Render(export, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExport renders export to a file.
//
// Defaults to library.{format} as the filename.
func WriteExport(export *Export, format Format, filepath string) (string, error) {
	if filepath == "" {
		filepath = "library." + string(format)
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

func byStatus(games []models.Game, status models.Status) []models.Game {
	var out []models.Game
	for _, g := range games {
		if g.Status == status {
			out = append(out, g)
		}
	}
	return out
}
