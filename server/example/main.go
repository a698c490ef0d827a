// Command example runs the calview event server and prints agendas.
//
//	example serve --config config.yaml
//	example agenda --server http://127.0.0.1:8080/ --date 2024-10-01 --week
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC1123Z,
	}))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "example",
		Short:         "Calendar event server with recurrence views",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newAgendaCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
