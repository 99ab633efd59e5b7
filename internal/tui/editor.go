package tui

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rubentalstra/OpCore-Simplify/internal/logging"
	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
	"github.com/rubentalstra/OpCore-Simplify/internal/snapshot"
)

// treeRow is one visible line of the document tree.
type treeRow struct {
	Path      string
	Key       string
	Value     plist.Value
	Depth     int
	Container bool
}

// EditorModel is the config.plist tree editor with snapshot actions.
type EditorModel struct {
	Backend Backend

	Rows     []treeRow
	Cursor   int
	Offset   int
	Expanded map[string]bool

	Form    *huh.Form
	Edit    *valueEdit
	Confirm *huh.Form
	confirm bool

	Picker  filepicker.Model
	Picking bool

	Status string

	Width  int
	Height int
}

func NewEditorModel(backend Backend) EditorModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".plist"}
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return EditorModel{
		Backend:  backend,
		Expanded: map[string]bool{},
		Picker:   fp,
	}
}

// CapturesInput reports whether a form or picker owns the keyboard.
func (m EditorModel) CapturesInput() bool {
	return m.Form != nil || m.Confirm != nil || m.Picking
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = size.Width
		m.Height = size.Height
		m.Picker.Height = size.Height - 8
		return m, nil
	}

	if m.Picking {
		return m.updatePicker(msg)
	}
	if m.Form != nil {
		return m.updateForm(msg)
	}
	if m.Confirm != nil {
		return m.updateConfirm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m EditorModel) updatePicker(msg tea.Msg) (EditorModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.Picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.Picker, cmd = m.Picker.Update(msg)

	if ok, path := m.Picker.DidSelectFile(msg); ok {
		m.Picking = false
		if err := m.Backend.LoadDocument(path); err != nil {
			m.Status = StyleStatusBad.Render("open failed: " + err.Error())
			logging.EditorLog("error", "open %s: %v", path, err)
		} else {
			m.Status = StyleStatusGood.Render("loaded " + path)
			m.Cursor = 0
			m.Expanded = map[string]bool{}
			m.rebuild()
		}
	}
	return m, cmd
}

func (m EditorModel) updateForm(msg tea.Msg) (EditorModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.Form = nil
		m.Edit = nil
		return m, nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}

	if m.Form.State == huh.StateCompleted {
		m.applyEdit()
		m.Form = nil
		m.Edit = nil
	}
	return m, cmd
}

func (m *EditorModel) applyEdit() {
	doc := m.Backend.Document()
	if doc == nil || m.Edit == nil {
		return
	}

	v, err := m.Edit.Value()
	if err != nil {
		m.Status = StyleStatusBad.Render(err.Error())
		return
	}
	if err := plist.SetPath(doc, m.Edit.Path, v); err != nil {
		m.Status = StyleStatusBad.Render("set failed: " + err.Error())
		return
	}
	logging.EditorLog("info", "set %s", m.Edit.Path)
	m.Status = StyleStatusGood.Render("updated " + m.Edit.Path)
	m.rebuild()
}

func (m EditorModel) updateConfirm(msg tea.Msg) (EditorModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.Confirm = nil
		return m, nil
	}

	form, cmd := m.Confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Confirm = f
	}

	if m.Confirm.State == huh.StateCompleted {
		m.Confirm = nil
		if m.confirm {
			m.runSnapshot(snapshot.ModeClean)
		}
	}
	return m, cmd
}

func (m EditorModel) handleKey(key tea.KeyMsg) (EditorModel, tea.Cmd) {
	switch key.String() {
	case "o":
		m.Picking = true
		return m, m.Picker.Init()

	case "w":
		if m.Backend.Document() == nil {
			return m, nil
		}
		if err := m.Backend.SaveDocument(); err != nil {
			m.Status = StyleStatusBad.Render("save failed: " + err.Error())
		} else {
			m.Status = StyleStatusGood.Render("saved " + m.Backend.ConfigPath())
		}
		return m, nil

	case "s":
		m.runSnapshot(snapshot.ModeMerge)
		return m, nil

	case "c":
		if m.Backend.Document() == nil {
			return m, nil
		}
		m.confirm = false
		m.Confirm = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Clean snapshot?").
				Description("Discards every existing entry, including user edits, and rebuilds all four sections from the EFI folder.").
				Affirmative("Clean").
				Negative("Cancel").
				Value(&m.confirm),
		))
		return m, m.Confirm.Init()

	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil

	case "down", "j":
		if m.Cursor < len(m.Rows)-1 {
			m.Cursor++
		}
		return m, nil

	case "h", "left":
		if row := m.selected(); row != nil && row.Container && m.Expanded[row.Path] {
			m.Expanded[row.Path] = false
			m.rebuild()
		}
		return m, nil

	case "enter", "l", "right":
		row := m.selected()
		if row == nil {
			return m, nil
		}
		if row.Container {
			m.Expanded[row.Path] = !m.Expanded[row.Path]
			m.rebuild()
			return m, nil
		}
		edit, ok := newValueEdit(row.Path, row.Value)
		if !ok {
			return m, nil
		}
		m.Edit = edit
		m.Form = edit.Form()
		return m, m.Form.Init()
	}

	return m, nil
}

func (m *EditorModel) runSnapshot(mode snapshot.Mode) {
	if m.Backend.Document() == nil {
		m.Status = StyleStatusWarn.Render("load a config.plist first (o)")
		return
	}
	if m.Backend.Settings().EFIDir == "" {
		m.Status = StyleStatusWarn.Render("set efi_dir in settings first")
		return
	}

	report, err := m.Backend.Snapshot(mode)
	if err != nil {
		m.Status = StyleStatusBad.Render("snapshot failed: " + err.Error())
		logging.EditorLog("error", "snapshot: %v", err)
		return
	}

	logging.EditorLog("info", "snapshot (%s): %s", mode, report.Summary())
	m.Status = StyleStatusGood.Render("snapshot: " + report.Summary())
	m.rebuild()
}

func (m *EditorModel) selected() *treeRow {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return nil
	}
	return &m.Rows[m.Cursor]
}

// rebuild re-flattens the document into visible rows.
func (m *EditorModel) rebuild() {
	m.Rows = nil
	doc := m.Backend.Document()
	if doc == nil {
		return
	}
	for _, key := range doc.Keys() {
		v, _ := doc.Get(key)
		m.flatten(key, key, v, 0)
	}
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *EditorModel) flatten(path, key string, v plist.Value, depth int) {
	switch val := v.(type) {
	case *plist.Dict:
		m.Rows = append(m.Rows, treeRow{Path: path, Key: key, Value: v, Depth: depth, Container: true})
		if m.Expanded[path] {
			for _, k := range val.Keys() {
				child, _ := val.Get(k)
				m.flatten(path+"."+k, k, child, depth+1)
			}
		}
	case plist.Array:
		m.Rows = append(m.Rows, treeRow{Path: path, Key: key, Value: v, Depth: depth, Container: true})
		if m.Expanded[path] {
			for i, child := range val {
				m.flatten(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("[%d]", i), child, depth+1)
			}
		}
	default:
		m.Rows = append(m.Rows, treeRow{Path: path, Key: key, Value: v, Depth: depth})
	}
}

func (m EditorModel) View() string {
	if m.Picking {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render("OPEN CONFIG.PLIST"),
			m.Picker.View(),
			StyleSubtitle.Render("Esc to cancel"),
		)
	}

	if m.Form != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render("EDIT VALUE"),
			StyleActiveCard.Render(m.Form.View()),
			StyleSubtitle.Render("Esc to cancel"),
		)
	}

	if m.Confirm != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render("CLEAN SNAPSHOT"),
			StyleActiveCard.Render(m.Confirm.View()),
		)
	}

	if m.Backend.Document() == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render("CONFIG EDITOR"),
			StyleCard.Render("No document loaded."),
			StyleSubtitle.Render("o open · q quit"),
		)
	}

	if len(m.Rows) == 0 && m.Backend.Document().Len() > 0 {
		// Lazy first build after an externally loaded document
		mm := m
		mm.rebuild()
		return mm.View()
	}

	body := "(empty document)"
	if len(m.Rows) > 0 {
		body = m.renderTree()
	}

	parts := []string{
		StyleHeader.Render("CONFIG EDITOR") + "  " + StyleSubtitle.Render(m.Backend.ConfigPath()),
		StyleCard.Render(body),
		StyleSubtitle.Render("enter expand/edit · s snapshot · c clean snapshot · w write · o open"),
	}
	if m.Status != "" {
		parts = append(parts, m.Status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m EditorModel) renderTree() string {
	visible := m.Height - 10
	if visible < 5 {
		visible = 5
	}

	start := 0
	if m.Cursor >= visible {
		start = m.Cursor - visible + 1
	}
	end := start + visible
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	var lines []string
	for i := start; i < end; i++ {
		row := m.Rows[i]
		indent := ""
		for d := 0; d < row.Depth; d++ {
			indent += "  "
		}

		var line string
		if row.Container {
			arrow := "▸"
			if m.Expanded[row.Path] {
				arrow = "▾"
			}
			line = fmt.Sprintf("%s%s %s %s", indent, arrow,
				StyleTreeKey.Render(row.Key),
				StyleTreeValue.Render(containerSummary(row.Value)))
		} else {
			line = fmt.Sprintf("%s  %s = %s", indent,
				StyleTreeKey.Render(row.Key),
				StyleTreeValue.Render(scalarSummary(row.Value)))
		}

		if i == m.Cursor {
			line = StyleTreeSelected.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func containerSummary(v plist.Value) string {
	switch val := v.(type) {
	case *plist.Dict:
		return fmt.Sprintf("{%d keys}", val.Len())
	case plist.Array:
		return fmt.Sprintf("[%d items]", len(val))
	}
	return ""
}

func scalarSummary(v plist.Value) string {
	switch val := v.(type) {
	case plist.Bool:
		return fmt.Sprintf("%t", bool(val))
	case plist.Integer:
		return fmt.Sprintf("%d", int64(val))
	case plist.String:
		s := string(val)
		if len(s) > 48 {
			s = s[:45] + "..."
		}
		return fmt.Sprintf("%q", s)
	case plist.Data:
		if len(val) > 16 {
			return fmt.Sprintf("<%d bytes>", len(val))
		}
		return "<" + base64.StdEncoding.EncodeToString(val) + ">"
	}
	return plist.TypeName(v)
}
