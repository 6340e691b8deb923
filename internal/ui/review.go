// Package ui provides the interactive review screen for scan results.
package ui

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gubarz/dupword/internal/discover"
	"github.com/gubarz/dupword/internal/report"
	"github.com/gubarz/dupword/internal/scan"
)

// Rescanner scans a single file again after it was edited
type Rescanner func(f discover.File) ([]scan.Finding, error)

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// editorDoneMsg is sent when the external editor exits
type editorDoneMsg struct {
	index int
	err   error
}

// ============================================================================
// File Item
// ============================================================================

// fileItem wraps a result with display metadata
type fileItem struct {
	result report.Result
	folder string
	file   string
}

func newFileItem(r report.Result) fileItem {
	return fileItem{
		result: r,
		folder: filepath.Base(filepath.Dir(r.File.Path)),
		file:   filepath.Base(r.File.Path),
	}
}

// matchesQuery checks if the item path contains all search words
func (item *fileItem) matchesQuery(words []string) bool {
	path := strings.ToLower(item.result.File.Path)
	for _, word := range words {
		if !strings.Contains(path, word) {
			return false
		}
	}
	return true
}

// ============================================================================
// Review Model
// ============================================================================

// reviewModel is the Bubble Tea model listing files with repeated words
type reviewModel struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool

	items    []fileItem
	filtered []int // indexes into items
	cursor   int
	offset   int // viewport scroll offset

	editor string
	rescan Rescanner
	err    error
}

func newReviewModel(results []report.Result, editor string, rescan Rescanner) reviewModel {
	ti := textinput.New()
	ti.Placeholder = "Filter files..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	var items []fileItem
	for _, r := range results {
		if !r.Passed() {
			items = append(items, newFileItem(r))
		}
	}

	m := reviewModel{
		textInput: ti,
		items:     items,
		editor:    editor,
		rescan:    rescan,
	}
	m.filterItems()
	return m
}

// Init implements tea.Model
func (m reviewModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case filterMsg:
		m.filterItems()
		return m, nil
	case editorDoneMsg:
		m.handleEditorDone(msg)
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input
func (m *reviewModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "enter", "ctrl+o":
		return m.openSelected()
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.cursor = 0
	case "end", "ctrl+e":
		m.cursor = max(0, len(m.filtered)-1)
	}
	return nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *reviewModel) moveCursor(delta int) {
	m.cursor += delta
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
}

// filterItems filters the file list based on the search query
func (m *reviewModel) filterItems() {
	words := strings.Fields(strings.ToLower(m.textInput.Value()))

	m.filtered = m.filtered[:0]
	for i := range m.items {
		if m.items[i].matchesQuery(words) {
			m.filtered = append(m.filtered, i)
		}
	}
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
}

// selected returns the index of the item under the cursor, or -1
func (m *reviewModel) selected() int {
	if m.cursor < len(m.filtered) {
		return m.filtered[m.cursor]
	}
	return -1
}

// openSelected opens the selected file in the editor at its first finding
func (m *reviewModel) openSelected() tea.Cmd {
	idx := m.selected()
	if idx < 0 || strings.TrimSpace(m.editor) == "" {
		return nil
	}
	item := m.items[idx]
	line := 1
	if len(item.result.Findings) > 0 {
		line = item.result.Findings[0].Line
	}
	cmd := editorCommand(m.editor, item.result.File.Path, line)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{index: idx, err: err}
	})
}

// handleEditorDone rescans the edited file and updates its findings
func (m *reviewModel) handleEditorDone(msg editorDoneMsg) {
	if msg.err != nil {
		m.err = fmt.Errorf("editor: %w", msg.err)
		return
	}
	if m.rescan == nil || msg.index < 0 || msg.index >= len(m.items) {
		return
	}
	item := &m.items[msg.index]
	findings, err := m.rescan(item.result.File)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	item.result.Findings = findings
}

// editorCommand builds the command that opens path at line
func editorCommand(editor, path string, line int) *exec.Cmd {
	fields := strings.Fields(editor)
	args := append(fields[1:], "+"+strconv.Itoa(line), path)
	return exec.Command(fields[0], args...)
}

// View implements tea.Model
func (m reviewModel) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width, 80)
	height := max(m.height, 24)

	preview := m.renderPreview(width)
	previewLines := countLines(preview)

	inputLines := 3 // divider + info + input
	listHeight := max(height-previewLines-inputLines, 3)
	list := m.renderList(listHeight, width)
	listLines := countLines(list)

	padding := max(height-previewLines-listLines-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))

	return b.String()
}

// renderPreview renders the findings of the selected file
func (m reviewModel) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	lines := 0
	const maxLines = 8

	if idx := m.selected(); idx >= 0 {
		item := m.items[idx]
		b.WriteString(styles.PreviewPath.Render(item.result.File.Path))
		b.WriteString("\n")
		lines++

		if item.result.Passed() {
			b.WriteString(styles.Dim.Render("  no repeated words"))
			b.WriteString("\n")
			lines++
		}
		for i, f := range item.result.Findings {
			if lines >= maxLines-1 {
				rest := len(item.result.Findings) - i
				b.WriteString(styles.Dim.Render(fmt.Sprintf("  … %d more", rest)))
				b.WriteString("\n")
				lines++
				break
			}
			b.WriteString(styles.LineNumber.Render(fmt.Sprintf("  %5d ", f.Line)))
			b.WriteString(styles.Word.Render("«" + f.Word + "»"))
			b.WriteString("\n")
			lines++
		}
	}

	if m.err != nil && lines < maxLines {
		b.WriteString(styles.Error.Render(truncateString(m.err.Error(), width)))
		b.WriteString("\n")
		lines++
	}

	// Pad to fixed height
	for lines < maxLines {
		b.WriteString("\n")
		lines++
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	return b.String()
}

// renderList renders the scrollable list of files
func (m *reviewModel) renderList(maxHeight, width int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		item := m.items[m.filtered[i]]
		b.WriteString(m.renderListItem(item, i == m.cursor, width))
		b.WriteString("\n")
	}

	return b.String()
}

// renderListItem renders one file row
func (m reviewModel) renderListItem(item fileItem, selected bool, width int) string {
	pathStyle, countStyle, dimStyle := styles.Path, styles.Count, styles.Dim
	if selected {
		pathStyle = styles.WithSelection(pathStyle)
		countStyle = styles.WithSelection(countStyle)
		dimStyle = styles.WithSelection(dimStyle)
	}

	prefix := "  "
	if selected {
		prefix = styles.Cursor.Render("▌ ")
	}

	count := "  ok"
	if n := len(item.result.Findings); n > 0 {
		count = fmt.Sprintf("%4d", n)
	}
	name := truncateString(item.folder+"/"+item.file, max(width-10, 10))

	return prefix + countStyle.Render(count) + dimStyle.Render("  ") + pathStyle.Render(name)
}

// renderInput renders the input section at the bottom
func (m reviewModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.items))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Enter edit"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// Run launches the review screen for every failing result.
// It returns immediately when nothing failed.
func Run(results []report.Result, editor string, rescan Rescanner) error {
	m := newReviewModel(results, editor, rescan)
	if len(m.items) == 0 {
		return nil
	}

	ttyIn, ttyOut, cleanup := getTTY()
	defer cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	_, err := p.Run()
	return err
}
