// Package tui is the interactive search interface: a debounced query
// input, a scrollable result list with selection checkboxes, and a
// conversation preview pane.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/export"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/render"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/session"
)

const debounceDelay = 200 * time.Millisecond

// debounceTickMsg fires after the debounce delay; the search itself
// runs inside Update so the session is only touched from one
// goroutine.
type debounceTickMsg struct {
	query string
}

// Options configures a TUI run.
type Options struct {
	Query      string
	Date       search.DateFilter
	ExportDir  string
	ExportBase string
}

// model

type model struct {
	sess *session.Session
	opts Options

	query      string
	results    []search.Result
	cursor     int
	listOffset int

	filterInput textinput.Model
	preview     viewport.Model
	previewID   string // conversation ID currently rendered

	width    int
	height   int
	ready    bool
	quitting bool

	copyID    string // set on Enter: conversation ID to copy
	exporting bool   // set on Ctrl+E: export selection on exit
}

func initialModel(sess *session.Session, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Focus()
	ti.SetValue(opts.Query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		sess:        sess,
		opts:        opts,
		query:       opts.Query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the TUI and blocks until it exits. Enter copies the
// highlighted conversation's ID to the clipboard; Ctrl+E exports the
// selected conversations as JSON on the way out.
func Run(sess *session.Session, opts Options) error {
	m := initialModel(sess, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.copyID != "" {
		return copyConversationID(fm.copyID)
	}
	if fm.exporting {
		return exportSelection(sess, opts)
	}
	return nil
}

// copyConversationID puts the ID on the clipboard, falling back to
// stdout when no clipboard is available.
func copyConversationID(id string) error {
	if err := clipboard.WriteAll(id); err != nil {
		fmt.Printf("%s\n", id)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", id)
	return nil
}

// exportSelection writes the selected conversations as a JSON export
// into the configured export directory.
func exportSelection(sess *session.Session, opts Options) error {
	selected := sess.SelectedConversations()
	if len(selected) == 0 {
		fmt.Println("Nothing selected, nothing exported.")
		return nil
	}

	now := time.Now()
	data, err := export.JSON(selected, sess.Filters(), now)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.ExportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(opts.ExportDir, export.DefaultFilename(opts.ExportBase, export.FormatJSON, now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Printf("Exported %d conversations to %s\n", len(selected), path)
	return nil
}

// Init triggers the initial search.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.query != "" {
		q := m.query
		cmds = append(cmds, func() tea.Msg { return debounceTickMsg{query: q} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = viewport.New(m.previewWidth(), m.panelHeight())
		m.previewID = ""
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Copy):
			if len(m.results) > 0 && m.cursor < len(m.results) {
				m.copyID = m.results[m.cursor].Conversation.ID
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Toggle):
			if len(m.results) > 0 && m.cursor < len(m.results) {
				m.sess.ToggleSelection(m.results[m.cursor].Conversation.ID)
			}
			return m, nil

		case key.Matches(msg, keys.Export):
			m.exporting = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}
			return m, nil

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		// Check if query changed
		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, m.scheduleDebouncedSearch(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.results) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			pH := m.panelHeight()
			visibleItems := pH / linesPerItem
			maxOffset := len(m.results) - visibleItems
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.results) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}
			return m, nil

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}

		return m, nil

	case debounceTickMsg:
		// Only fire search if query hasn't changed since debounce was scheduled
		if msg.query == m.query {
			m.applySearch(msg.query)
		}
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// refreshPreview renders the highlighted conversation into the preview
// pane. Rendering is in-memory and cheap, so it runs inline rather
// than as a command.
func (m *model) refreshPreview() {
	if len(m.results) == 0 || m.cursor >= len(m.results) {
		return
	}
	conv := m.results[m.cursor].Conversation
	if conv.ID == m.previewID {
		return
	}
	content := render.Conversation(conv, render.Options{
		Width: m.previewWidth(),
		Query: m.query,
	})
	m.preview.SetContent(content)
	m.preview.GotoTop()
	m.previewID = conv.ID
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	// Layout dimensions
	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	// Input row
	inputRow := m.filterInput.View()

	// List panel
	listContent := m.renderList(listW, panelH)
	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(listContent)

	// Preview panel
	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	// Join panels side by side
	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	// Status bar
	status := m.statusBar()

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, status)
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		itemIndex := m.listOffset + (relY / linesPerItem)
		return regionList, itemIndex
	}

	if x > listBoxRight+1 {
		return regionPreview, -1
	}

	return regionNone, -1
}

func (m model) statusBar() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d results", len(m.results)))
	if n := m.sess.SelectionCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	parts = append(parts, "click/up/dn navigate")
	parts = append(parts, "Tab select")
	parts = append(parts, "C-e export")
	parts = append(parts, "Enter copy ID")
	parts = append(parts, "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// applySearch evaluates the query and resets the list and preview.
func (m *model) applySearch(query string) {
	if strings.TrimSpace(query) == "" {
		m.results = nil
	} else {
		m.results = m.sess.Search(query, m.opts.Date)
	}
	m.cursor = 0
	m.listOffset = 0
	if len(m.results) > 0 {
		m.previewID = ""
		m.refreshPreview()
	} else {
		m.preview.SetContent("")
		m.previewID = ""
	}
}

func (m model) scheduleDebouncedSearch(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}
