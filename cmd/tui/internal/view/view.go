package view

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/pennywise/internal/api"
	"github.com/MrJamesThe3rd/pennywise/internal/snapshot"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Client is the part of the API client the screens talk to.
type Client interface {
	snapshot.API
	Suggest(ctx context.Context, description string) (string, error)
	Import(ctx context.Context, format, filename string, r io.Reader) (*api.ImportResult, error)
	Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int64, error)
}

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}
