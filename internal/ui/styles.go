package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// StyleManager encapsulates all TUI styles
type StyleManager struct {
	// List view styles
	Path   lipgloss.Style
	Count  lipgloss.Style
	Cursor lipgloss.Style
	Dim    lipgloss.Style

	// Preview styles
	PreviewPath lipgloss.Style
	LineNumber  lipgloss.Style
	Word        lipgloss.Style
	Error       lipgloss.Style

	// Chrome styles
	Divider lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Path:        lipgloss.NewStyle(),
		Count:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewPath: lipgloss.NewStyle().Bold(true),
		LineNumber:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Word:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		SelectedBg:  lipgloss.Color("236"),
	}
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// Global style manager instance
var styles = DefaultStyles()
