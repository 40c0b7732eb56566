package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pennywise/internal/client"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
)

// Exit codes.
const (
	exitFailure  = 1
	exitNotFound = 2
	exitUsage    = 3
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// apiError maps a client error onto an exit code.
func apiError(err error) error {
	var se *client.StatusError

	switch {
	case client.IsNotFound(err):
		return codeError(exitNotFound, "%s", err)
	case errors.As(err, &se) && se.Code < 500:
		return codeError(exitUsage, "%s", err)
	}

	return codeError(exitFailure, "%s", err)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitUsage)
	}

	root := newRootCmd(cfg)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(exitFailure)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		apiURL  = cfg.Client.APIURL
		timeout = cfg.Client.Timeout
	)

	root := &cobra.Command{
		Use:           "pennyctl",
		Short:         "Manage pennywise transactions from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", apiURL, "Base URL of the pennywise API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", timeout, "Timeout of a single API request")

	newClient := func() *client.Client {
		return client.New(apiURL, timeout)
	}

	root.AddCommand(
		newListCmd(newClient),
		newSummaryCmd(newClient),
		newAddCmd(newClient),
		newDeleteCmd(newClient),
		newImportCmd(newClient),
		newExportCmd(newClient),
	)

	return root
}
