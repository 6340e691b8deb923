package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gubarz/dupword/internal/discover"
	"github.com/gubarz/dupword/internal/report"
	"github.com/gubarz/dupword/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResults() []report.Result {
	return []report.Result{
		{File: discover.File{Path: "doc/clean.md"}},
		{File: discover.File{Path: "doc/intro.pod6", Dialect: discover.Marked}, Findings: []scan.Finding{{Word: "the", Line: 3}}},
		{File: discover.File{Path: "guide/usage.md"}, Findings: []scan.Finding{{Word: "is", Line: 9}, {Word: "a", Line: 12}}},
	}
}

func TestNewReviewModelListsFailingFiles(t *testing.T) {
	m := newReviewModel(testResults(), "vi", nil)
	require.Len(t, m.items, 2)
	assert.Equal(t, "doc/intro.pod6", m.items[0].result.File.Path)
	assert.Equal(t, []int{0, 1}, m.filtered)
}

func TestReviewModelCursor(t *testing.T) {
	var model tea.Model = newReviewModel(testResults(), "vi", nil)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, model.(reviewModel).cursor)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, model.(reviewModel).cursor, "cursor stays on last item")

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, model.(reviewModel).cursor)
}

func TestReviewModelFilter(t *testing.T) {
	m := newReviewModel(testResults(), "vi", nil)
	m.textInput.SetValue("GUIDE")
	m.filterItems()
	assert.Equal(t, []int{1}, m.filtered)

	m.textInput.SetValue("nothing matches")
	m.filterItems()
	assert.Empty(t, m.filtered)
	assert.Equal(t, -1, m.selected())
}

func TestReviewModelQuit(t *testing.T) {
	m := newReviewModel(testResults(), "vi", nil)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, model.(reviewModel).quitting)
	assert.Empty(t, model.View())
}

func TestReviewModelRescanAfterEdit(t *testing.T) {
	var rescanned []string
	rescan := func(f discover.File) ([]scan.Finding, error) {
		rescanned = append(rescanned, f.Path)
		return nil, nil
	}

	m := newReviewModel(testResults(), "vi", rescan)
	model, _ := m.Update(editorDoneMsg{index: 1})

	assert.Equal(t, []string{"guide/usage.md"}, rescanned)
	assert.True(t, model.(reviewModel).items[1].result.Passed())
}

func TestReviewModelEditorError(t *testing.T) {
	m := newReviewModel(testResults(), "vi", nil)
	model, _ := m.Update(editorDoneMsg{index: 0, err: errors.New("exit status 1")})
	assert.EqualError(t, model.(reviewModel).err, "editor: exit status 1")
	assert.Contains(t, model.View(), "editor: exit status 1")
}

func TestReviewModelView(t *testing.T) {
	m := newReviewModel(testResults(), "vi", nil)
	view := m.View()
	assert.Contains(t, view, "doc/intro.pod6")
	assert.Contains(t, view, "«the»")
	assert.Contains(t, view, "2/2")
}

func TestEditorCommand(t *testing.T) {
	cmd := editorCommand("code --wait", "doc/intro.pod6", 3)
	assert.Equal(t, []string{"code", "--wait", "+3", "doc/intro.pod6"}, cmd.Args)
}

func TestScrollWindow(t *testing.T) {
	offset := 0
	start, end := scrollWindow(7, 10, 3, &offset)
	assert.Equal(t, 5, start)
	assert.Equal(t, 8, end)
	assert.Equal(t, 5, offset)
}
