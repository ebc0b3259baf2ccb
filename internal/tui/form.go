package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// nodeForm edits one node's fields: title, free-text content, image path.
type nodeForm struct {
	title   textinput.Model
	content textarea.Model
	image   textinput.Model
	focus   int // 0=title 1=content 2=image
}

func newNodeForm(title, content, image string) nodeForm {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.SetValue(title)
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Content (lines starting with -, *, + or 1. become bullets)"
	ta.SetValue(content)

	img := textinput.New()
	img.Placeholder = "Image path (optional)"
	img.SetValue(image)

	return nodeForm{title: ti, content: ta, image: img}
}

func (f *nodeForm) setSize(width, height int) {
	w := width - 4
	if w < 20 {
		w = 20
	}
	f.title.Width = w
	f.image.Width = w
	f.content.SetWidth(w)
	h := height - 10
	if h < 4 {
		h = 4
	}
	if h > 12 {
		h = 12
	}
	f.content.SetHeight(h)
}

func (f *nodeForm) cycleFocus(back bool) {
	delta := 1
	if back {
		delta = 2 // mod 3
	}
	f.focus = (f.focus + delta) % 3
	f.title.Blur()
	f.content.Blur()
	f.image.Blur()
	switch f.focus {
	case 0:
		f.title.Focus()
	case 1:
		f.content.Focus()
	case 2:
		f.image.Focus()
	}
}

func (f *nodeForm) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	f.title, cmd = f.title.Update(msg)
	cmds = append(cmds, cmd)
	f.content, cmd = f.content.Update(msg)
	cmds = append(cmds, cmd)
	f.image, cmd = f.image.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (f *nodeForm) values() (title, content, image string) {
	return strings.TrimSpace(f.title.Value()),
		f.content.Value(),
		strings.TrimSpace(f.image.Value())
}

func (f *nodeForm) view(heading string) string {
	label := func(s string, active bool) string {
		st := styleMuted()
		if active {
			st = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
		}
		return st.Render(s)
	}
	parts := []string{
		lipgloss.NewStyle().Bold(true).Render(heading),
		"",
		label("Title", f.focus == 0),
		f.title.View(),
		"",
		label("Content", f.focus == 1),
		f.content.View(),
		"",
		label("Image", f.focus == 2),
		f.image.View(),
		"",
		styleMuted().Render("tab: next field   ctrl+s: save   esc: cancel"),
	}
	return strings.Join(parts, "\n")
}
