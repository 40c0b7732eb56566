package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type CommonModel struct {
	Width   int
	Height  int
	Timeout time.Duration
}

// requestCtx bounds a single API call.
func (c CommonModel) requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout)
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// OpenImportMsg asks the root model to switch to the import screen.
type OpenImportMsg struct{}

// OpenExportMsg asks the root model to switch to the export screen.
type OpenExportMsg struct{}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	panelStyle   = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)
