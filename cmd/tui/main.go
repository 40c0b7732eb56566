package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pennywise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pennywise/internal/client"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
	"github.com/MrJamesThe3rd/pennywise/internal/logging"
	"github.com/MrJamesThe3rd/pennywise/internal/snapshot"
)

type model struct {
	client view.Client

	currentView View

	dashboardView view.DashboardModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewDashboard View = 0
	ViewImport    View = 1
	ViewExport    View = 2
)

func initialModel(cfg *config.Config) model {
	c := client.New(cfg.Client.APIURL, cfg.Client.Timeout)
	syncer := snapshot.NewSyncer(c, snapshot.New())

	return model{
		client:        c,
		currentView:   ViewDashboard,
		dashboardView: view.NewDashboardModel(c, syncer, cfg.Client.Timeout),
		importView:    view.NewImportModel(c),
		exportView:    view.NewExportModel(c),
	}
}

func (m model) Init() tea.Cmd {
	return m.dashboardView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if m.currentView != ViewDashboard {
			newModel, _ := m.dashboardView.Update(msg)
			m.dashboardView = newModel.(view.DashboardModel)
		}
	case view.OpenImportMsg:
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.client)

		return m, m.importView.Init()
	case view.OpenExportMsg:
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.client)

		return m, m.exportView.Init()
	case view.BackMsg:
		m.currentView = ViewDashboard
		return m, m.dashboardView.Refresh()
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

// setupLogging keeps the terminal clean: logs go to LOG_FILE or nowhere.
func setupLogging(cfg *config.Config) (func(), error) {
	if cfg.Log.File == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() {}, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(logging.New(f, cfg.Log.Level, cfg.Log.Format))

	return func() { f.Close() }, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		closeLog()
		os.Exit(1)
	}
}
