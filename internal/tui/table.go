package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/louis030195/bigbrother/internal/storage"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// RenderSessionTable formats a session list as an aligned, styled table
// for `list`'s default (non-JSON) output.
func RenderSessionTable(sessions []storage.Session) string {
	if len(sessions) == 0 {
		return hintStyle.Render("no recordings yet — run `bigbrother record -n <name>`") + "\n"
	}

	headers := []string{"NAME", "ID", "STARTED", "EVENTS"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.Name,
			s.ID,
			s.StartedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", s.EventCount),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i, cell := range cells {
			b.WriteString(style.Width(widths[i] + 2).Render(cell))
		}
		b.WriteString("\n")
	}

	writeRow(headers, headerStyle)
	for _, row := range rows {
		writeRow(row, cellStyle)
	}

	return b.String()
}
