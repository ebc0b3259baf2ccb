package tui

import (
	"fmt"
	"strings"
	"time"

	"accordion-cli/internal/export"
	"accordion-cli/internal/outline"
	"accordion-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
	modeExportPrompt
)

// formTarget says what saving the form does.
type formTarget struct {
	editID   string // non-empty: edit this node
	parentID string // non-empty: add subtitle under this node
}

type appModel struct {
	store store.Store
	db    *store.DB

	width  int
	height int

	mode   mode
	rows   list.Model
	form   nodeForm
	target formTarget

	deleteID    string
	deleteTitle string

	exportInput textinput.Model

	status      string
	statusIsErr bool
}

func newAppModel(s store.Store, db *store.DB) appModel {
	l := list.New([]list.Item{}, newRowDelegate(), 0, 0)
	l.Title = "Accordion"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = lipgloss.NewStyle().Bold(true)

	m := appModel{store: s, db: db, rows: l}
	m.refreshRows("")
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeExportPrompt:
			return m.updateExportPrompt(msg)
		default:
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is open, let it consume everything except quit.
	if m.rows.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.rows, cmd = m.rows.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "a":
		m.mode = modeForm
		m.target = formTarget{}
		m.form = newNodeForm("", "", "")
		m.form.setSize(m.width, m.height)
		return m, nil

	case "s":
		r, ok := m.selectedRow()
		if !ok {
			return m.flashErr("no node selected"), nil
		}
		if n, ok := m.db.FindNode(r.ID); ok && n.Locked {
			return m.flashErr(fmt.Sprintf("%q is locked", n.Title)), nil
		}
		m.mode = modeForm
		m.target = formTarget{parentID: r.ID}
		m.form = newNodeForm("", "", "")
		m.form.setSize(m.width, m.height)
		return m, nil

	case "e":
		r, ok := m.selectedRow()
		if !ok {
			return m.flashErr("no node selected"), nil
		}
		n, found := m.db.FindNode(r.ID)
		if !found {
			return m.flashErr("node vanished; press r to reload"), nil
		}
		if n.Locked {
			return m.flashErr(fmt.Sprintf("%q is locked", n.Title)), nil
		}
		m.mode = modeForm
		m.target = formTarget{editID: n.ID}
		m.form = newNodeForm(n.Title, n.Content, n.ImagePath)
		m.form.setSize(m.width, m.height)
		return m, nil

	case "d":
		r, ok := m.selectedRow()
		if !ok {
			return m.flashErr("no node selected"), nil
		}
		n, found := m.db.FindNode(r.ID)
		if !found {
			return m.flashErr("node vanished; press r to reload"), nil
		}
		if n.Locked {
			return m.flashErr(fmt.Sprintf("%q is locked", n.Title)), nil
		}
		m.mode = modeConfirmDelete
		m.deleteID = n.ID
		m.deleteTitle = n.Title
		return m, nil

	case "K":
		return m.moveSelected(outline.DirectionUp), nil
	case "J":
		return m.moveSelected(outline.DirectionDown), nil

	case "l":
		r, ok := m.selectedRow()
		if !ok {
			return m.flashErr("no node selected"), nil
		}
		n, found := m.db.FindNode(r.ID)
		if !found {
			return m.flashErr("node vanished; press r to reload"), nil
		}
		nn, err := outline.SetLocked(m.db, n.ID, !n.Locked, time.Now().UTC())
		if err != nil {
			return m.flashErr(err.Error()), nil
		}
		if err := m.store.Save(m.db); err != nil {
			return m.flashErr(err.Error()), nil
		}
		ev := "node.unlock"
		if nn.Locked {
			ev = "node.lock"
		}
		_ = m.store.AppendEvent(ev, nn.ID, nil)
		m.refreshRows(nn.ID)
		return m, nil

	case "x":
		in := textinput.New()
		in.Placeholder = "accordion.html"
		in.SetValue("accordion.html")
		in.CursorEnd()
		in.Focus()
		w := m.width - 8
		if w > 20 {
			in.Width = w
		}
		m.exportInput = in
		m.mode = modeExportPrompt
		return m, nil

	case "r":
		// Reload from disk (so CLI commands in another terminal are reflected).
		db, err := m.store.Load()
		if err != nil {
			return m.flashErr(err.Error()), nil
		}
		m.db = db
		cur := ""
		if r, ok := m.selectedRow(); ok {
			cur = r.ID
		}
		m.refreshRows(cur)
		return m, nil
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab":
		m.form.cycleFocus(false)
		return m, nil
	case "shift+tab":
		m.form.cycleFocus(true)
		return m, nil
	case "ctrl+s":
		return m.saveForm()
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m appModel) saveForm() (tea.Model, tea.Cmd) {
	title, content, image := m.form.values()
	now := time.Now().UTC()

	var savedID string
	switch {
	case m.target.editID != "":
		n, err := outline.Edit(m.db, m.target.editID, outline.EditOptions{
			Title:     &title,
			Content:   &content,
			ImagePath: &image,
		}, now)
		if err != nil {
			return m.flashErr(err.Error()), nil
		}
		savedID = n.ID
		if err := m.store.Save(m.db); err != nil {
			return m.flashErr(err.Error()), nil
		}
		_ = m.store.AppendEvent("node.edit", n.ID, map[string]any{"title": n.Title})

	case m.target.parentID != "":
		n, err := outline.AddSubtitle(m.db, m.target.parentID, title, content, image, now)
		if err != nil {
			return m.flashErr(err.Error()), nil
		}
		savedID = n.ID
		if err := m.store.Save(m.db); err != nil {
			return m.flashErr(err.Error()), nil
		}
		_ = m.store.AppendEvent("node.add_sub", n.ID, map[string]any{"parent": m.target.parentID, "title": n.Title})

	default:
		n, err := outline.AddTitle(m.db, title, content, image, now)
		if err != nil {
			return m.flashErr(err.Error()), nil
		}
		savedID = n.ID
		if err := m.store.Save(m.db); err != nil {
			return m.flashErr(err.Error()), nil
		}
		_ = m.store.AppendEvent("node.add", n.ID, map[string]any{"title": n.Title})
	}

	m.mode = modeList
	m.refreshRows(savedID)
	return m, nil
}

func (m appModel) updateExportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.mode = modeList
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.exportInput.Value())
		if path == "" {
			path = "accordion.html"
		}
		m.mode = modeList
		res, err := export.Write(m.db, path)
		if err != nil {
			return m.flashErr(err.Error()), nil
		}
		_ = m.store.AppendEvent("export.html", "", map[string]any{"path": res.Path, "assets": len(res.Assets)})
		note := fmt.Sprintf("exported %s (%d assets)", res.Path, len(res.Assets))
		if len(res.Warnings) > 0 {
			note += fmt.Sprintf(", %d warning(s)", len(res.Warnings))
		}
		return m.flashOK(note), nil
	}
	var cmd tea.Cmd
	m.exportInput, cmd = m.exportInput.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		removed, err := outline.Delete(m.db, m.deleteID)
		if err != nil {
			m.mode = modeList
			return m.flashErr(err.Error()), nil
		}
		if err := m.store.Save(m.db); err != nil {
			m.mode = modeList
			return m.flashErr(err.Error()), nil
		}
		_ = m.store.AppendEvent("node.delete", m.deleteID, map[string]any{"removed": removed})
		m.mode = modeList
		m.refreshRows("")
		return m.flashOK(fmt.Sprintf("deleted %d node(s)", len(removed))), nil
	case "n", "esc", "ctrl+g":
		m.mode = modeList
		return m, nil
	}
	return m, nil
}

func (m appModel) View() string {
	switch m.mode {
	case modeForm:
		heading := "New title"
		if m.target.editID != "" {
			heading = "Edit node"
		} else if m.target.parentID != "" {
			heading = "New subtitle"
		}
		return m.form.view(heading)

	case modeExportPrompt:
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Render("Export to:\n\n" + m.exportInput.View() + "\n\n" +
				styleMuted().Render("enter: export   esc: cancel"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)

	case modeConfirmDelete:
		body := fmt.Sprintf("Delete %q and its entire subtree?", m.deleteTitle)
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Render(body + "\n\n" + styleMuted().Render("y: delete   n/esc: cancel"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	left := m.rows.View()
	right := m.viewPreview()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	footer := styleMuted().Render("a: add  s: sub  e: edit  d: delete  K/J: move  l: lock  x: export  r: reload  /: filter  q: quit")
	status := ""
	if m.status != "" {
		st := lipgloss.NewStyle().Foreground(colorAccent)
		if m.statusIsErr {
			st = lipgloss.NewStyle().Foreground(colorError)
		}
		status = st.Render(m.status)
	}
	return strings.Join([]string{body, status, footer}, "\n")
}

func (m appModel) viewPreview() string {
	w := m.previewWidth()
	h := m.bodyHeight()

	r, ok := m.selectedRow()
	if !ok {
		return lipgloss.NewStyle().Width(w).Height(h).Render(styleMuted().Render("No node selected."))
	}
	n, found := m.db.FindNode(r.ID)
	if !found {
		return lipgloss.NewStyle().Width(w).Height(h).Render("")
	}

	var parts []string
	title := lipgloss.NewStyle().Bold(true).Render(r.Number + "  " + n.Title)
	if n.Locked {
		title += "  🔒"
	}
	parts = append(parts, title)
	parts = append(parts, styleMuted().Render(r.Path))
	if n.ImagePath != "" {
		parts = append(parts, styleMuted().Render("image: "+n.ImagePath))
	}
	if body := renderMarkdown(n.Content, w-2); body != "" {
		parts = append(parts, "", body)
	}

	return lipgloss.NewStyle().Width(w).Height(h).PaddingLeft(2).Render(strings.Join(parts, "\n"))
}

func (m *appModel) refreshRows(selectID string) {
	items := []list.Item{}
	for _, r := range outline.Rows(m.db) {
		items = append(items, rowItem{row: r})
	}
	m.rows.SetItems(items)
	if selectID != "" {
		for i, it := range items {
			if ri, ok := it.(rowItem); ok && ri.row.ID == selectID {
				m.rows.Select(i)
				break
			}
		}
	}
}

func (m appModel) moveSelected(dir outline.Direction) appModel {
	r, ok := m.selectedRow()
	if !ok {
		return m.flashErr("no node selected")
	}
	moved, err := outline.Move(m.db, r.ID, dir, time.Now().UTC())
	if err != nil {
		return m.flashErr(err.Error())
	}
	if !moved {
		return m
	}
	if err := m.store.Save(m.db); err != nil {
		return m.flashErr(err.Error())
	}
	_ = m.store.AppendEvent("node.move", r.ID, map[string]any{"direction": string(dir)})
	m.refreshRows(r.ID)
	return m
}

func (m appModel) selectedRow() (outline.Row, bool) {
	it, ok := m.rows.SelectedItem().(rowItem)
	if !ok {
		return outline.Row{}, false
	}
	return it.row, true
}

func (m appModel) flashErr(s string) appModel {
	m.status = s
	m.statusIsErr = true
	return m
}

func (m appModel) flashOK(s string) appModel {
	m.status = s
	m.statusIsErr = false
	return m
}

func (m *appModel) resize() {
	m.rows.SetSize(m.listWidth(), m.bodyHeight())
	m.form.setSize(m.width, m.height)
}

func (m appModel) listWidth() int {
	w := m.width / 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m appModel) previewWidth() int {
	w := m.width - m.listWidth()
	if w < 30 {
		w = 30
	}
	return w
}

func (m appModel) bodyHeight() int {
	h := m.height - 3
	if h < 8 {
		h = 8
	}
	return h
}
