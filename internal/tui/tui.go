// Package tui provides an interactive terminal UI for editing one
// TaskPaper document using Bubble Tea.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/baiirun/taskpaper/internal/document"
	"github.com/baiirun/taskpaper/internal/model"
)

// InputMode represents what kind of text input is active.
type InputMode int

const (
	InputNone   InputMode = iota
	InputFilter           // Entering filter text
	InputAdd              // Entering a new line
	InputTag              // Entering a tag to set
	InputUntag            // Entering a tag name to remove
)

// Status icons
const (
	iconPending = "○"
	iconDone    = "●"
	iconProject = "▸"
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	doc     *document.Document
	visible []int // indexes into doc.Items() after filtering
	cursor  int
	filter  string

	// Input state
	inputMode  InputMode
	inputText  string
	inputLabel string

	// UI state
	width   int
	height  int
	err     error
	message string // temporary status message

	confirmQuit bool // quit was pressed once with unsaved changes
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	projectStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// Content area padding
	contentPadding = 2
)

func itemIcon(item *model.Item) string {
	switch item.Type() {
	case model.ItemTypeProject:
		return iconProject
	case model.ItemTypeTask:
		if item.Done() {
			return iconDone
		}
		return iconPending
	default:
		return " "
	}
}

// New creates a TUI model over an open document.
func New(doc *document.Document) Model {
	m := Model{doc: doc}
	m.applyFilter()
	return m
}

// Messages
type savedMsg struct {
	path string
	err  error
}

// save writes the document out.
func (m Model) save() tea.Cmd {
	doc := m.doc
	return func() tea.Msg {
		return savedMsg{path: doc.Path(), err: doc.Save()}
	}
}

// applyFilter recomputes the visible items from the filter text. A
// filter starting with "@" matches tag names; anything else is a
// case-insensitive substring match on the whole line.
func (m *Model) applyFilter() {
	m.visible = nil
	filter := strings.ToLower(m.filter)
	for i, item := range m.doc.Items() {
		if !matchesFilter(item, filter) {
			continue
		}
		m.visible = append(m.visible, i)
	}
	// Adjust cursor
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
}

func matchesFilter(item *model.Item, filter string) bool {
	if filter == "" {
		return true
	}
	if name, ok := strings.CutPrefix(filter, "@"); ok && name != "" {
		for _, tag := range item.Tags() {
			if strings.Contains(strings.ToLower(tag.Name), name) {
				return true
			}
		}
		return false
	}
	return strings.Contains(strings.ToLower(item.String()), filter)
}

// current returns the item under the cursor, or nil with an empty list.
func (m Model) current() *model.Item {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return nil
	}
	item, err := m.doc.Item(m.visible[m.cursor] + 1)
	if err != nil {
		return nil
	}
	return item
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear message on any key
		m.message = ""
		m.err = nil
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.message = "saved " + msg.path
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != InputNone {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.inputMode == InputFilter {
			m.filter = ""
			m.applyFilter()
		}
		m.inputMode = InputNone
		m.inputText = ""
		return m, nil

	case "enter":
		return m.submitInput()

	case "backspace":
		if len(m.inputText) > 0 {
			m.inputText = m.inputText[:len(m.inputText)-1]
			// Live filter
			if m.inputMode == InputFilter {
				m.filter = m.inputText
				m.applyFilter()
			}
		}

	default:
		// Add character if printable
		if len(msg.String()) == 1 {
			m.inputText += msg.String()
			// Live filter
			if m.inputMode == InputFilter {
				m.filter = m.inputText
				m.applyFilter()
			}
		}
	}
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := m.inputText
	mode := m.inputMode
	m.inputMode = InputNone
	m.inputText = ""

	switch mode {
	case InputFilter:
		m.filter = text
		m.applyFilter()
		return m, nil

	case InputAdd:
		if text == "" {
			return m, nil
		}
		m.doc.Add(text)
		m.applyFilter()
		m.message = fmt.Sprintf("added line %d", m.doc.Len())
		return m, nil
	}

	// Remaining inputs act on the item under the cursor
	item := m.current()
	if item == nil {
		return m, nil
	}

	switch mode {
	case InputTag:
		if text == "" {
			return m, nil
		}
		name, value, _ := strings.Cut(text, "=")
		if err := item.SetTag(name, value); err != nil {
			m.err = err
			return m, nil
		}
		m.message = "set @" + name

	case InputUntag:
		if text == "" {
			return m, nil
		}
		if n := item.RemoveTag(text); n == 0 {
			m.message = "no @" + text + " tag"
		} else {
			m.message = "removed @" + text
		}
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "ctrl+c" && key != "esc" {
		m.confirmQuit = false
	}

	switch key {
	case "q", "ctrl+c":
		return m.doQuit()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		m.cursor = max(0, len(m.visible)-1)

	// Actions
	case "d", " ":
		if item := m.current(); item != nil {
			item.ToggleDone()
		}

	case "t":
		return m.startInput(InputTag, "Tag (name or name=value): ")

	case "u":
		return m.startInput(InputUntag, "Remove tag: ")

	case "a":
		return m.startInput(InputAdd, "New line: ")

	case "s":
		return m, m.save()

	// Filtering
	case "/":
		return m.startInput(InputFilter, "Filter: ")

	case "esc":
		// If a filter is set, clear it; otherwise quit
		if m.filter != "" {
			m.filter = ""
			m.applyFilter()
			return m, nil
		}
		return m.doQuit()
	}

	return m, nil
}

func (m Model) doQuit() (Model, tea.Cmd) {
	if m.doc.Modified() && !m.confirmQuit {
		m.confirmQuit = true
		m.message = "unsaved changes; press q again to quit, s to save"
		return m, nil
	}
	return m, tea.Quit
}

func (m Model) startInput(mode InputMode, label string) (Model, tea.Cmd) {
	m.inputMode = mode
	m.inputLabel = label
	m.inputText = ""
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.listView())

	// Input line
	if m.inputMode != InputNone {
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(m.inputLabel + m.inputText + "█"))
	}

	// Status message
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}

	padStyle := lipgloss.NewStyle().
		PaddingLeft(contentPadding).
		PaddingRight(contentPadding).
		PaddingTop(1)

	return padStyle.Render(b.String())
}

func (m Model) listView() string {
	var b strings.Builder

	// Header
	title := m.doc.Path()
	if title == "" {
		title = "(untitled)"
	}
	if m.doc.Modified() {
		title += " *"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(fmt.Sprintf("  %d/%d lines", len(m.visible), m.doc.Len()))
	if m.filter != "" {
		b.WriteString("  ")
		b.WriteString(filterStyle.Render("filter:" + m.filter))
	}
	b.WriteString("\n\n")

	// Header takes 2 lines, footer 3, message/input up to 2
	itemsHeight := m.height - 8
	if itemsHeight < 5 {
		itemsHeight = 15
	}

	items := m.doc.Items()
	if len(m.visible) == 0 {
		if m.filter != "" {
			b.WriteString("No lines match the filter\n")
		} else {
			b.WriteString("Empty document\n")
		}
	} else {
		// Keep the cursor in view
		start := 0
		if m.cursor >= itemsHeight {
			start = m.cursor - itemsHeight + 1
		}
		end := min(start+itemsHeight, len(m.visible))

		width := m.width - (contentPadding * 2)
		if width < 40 {
			width = 80
		}

		for i := start; i < end; i++ {
			item := items[m.visible[i]]
			line := formatLine(item, m.visible[i]+1, width)
			if i == m.cursor {
				b.WriteString(selectedRowStyle.Width(width).Render(line))
			} else {
				b.WriteString(styleLine(item, line))
			}
			b.WriteString("\n")
		}
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k:nav  d:toggle done  t:tag u:untag  a:add line"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/:filter  s:save  q:quit"))

	return b.String()
}

// formatLine renders one plain row: icon, line number, text.
func formatLine(item *model.Item, lineNo, width int) string {
	text := item.String()
	// icon(1) + space(1) + number(4) + space(2)
	textWidth := width - 8
	if textWidth < 20 {
		textWidth = 40
	}
	if len(text) > textWidth {
		text = text[:textWidth-3] + "..."
	}
	return fmt.Sprintf("%s %4d  %s", itemIcon(item), lineNo, text)
}

func styleLine(item *model.Item, line string) string {
	switch {
	case item.Type() == model.ItemTypeProject:
		return projectStyle.Render(line)
	case item.Done():
		return doneStyle.Render(line)
	default:
		return pendingStyle.Render(line)
	}
}

// Run starts the TUI over an open document.
func Run(doc *document.Document) error {
	m := New(doc)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
