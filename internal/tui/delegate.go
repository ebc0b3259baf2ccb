package tui

import (
	"fmt"
	"io"
	"strings"

	"accordion-cli/internal/outline"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type rowItem struct {
	row outline.Row
}

func (it rowItem) FilterValue() string { return it.row.Title }

func (it rowItem) line() string {
	indent := strings.Repeat("  ", it.row.Depth)
	badge := ""
	if it.row.Locked {
		badge = "  🔒"
	}
	return fmt.Sprintf("%s%s  %s%s", indent, it.row.Number, it.row.Title, badge)
}

type rowDelegate struct {
	normal   lipgloss.Style
	locked   lipgloss.Style
	selected lipgloss.Style
}

func newRowDelegate() rowDelegate {
	return rowDelegate{
		normal: lipgloss.NewStyle(),
		locked: lipgloss.NewStyle().Foreground(colorLocked),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(rowItem)
	if !ok {
		return
	}

	style := d.normal
	if it.row.Locked {
		style = d.locked
	}
	if index == m.Index() {
		style = d.selected
	}

	line := it.line()
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}
