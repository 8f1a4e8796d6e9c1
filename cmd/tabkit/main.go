package main

import (
	"fmt"
	"os"

	"github.com/autom8ter/tabkit"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

type loggerFunc func() (tabkit.Logger, error)

func rootCmd() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:           "tabkit",
		Short:         "tabkit searches, filters, sorts and paginates tabular json/yaml data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug|info|warn|error)")
	logger := func() (tabkit.Logger, error) {
		return tabkit.NewLogger(logLevel, map[string]any{"cmd": "tabkit"})
	}
	cmd.AddCommand(queryCmd(logger), exportCmd(logger), fakeCmd(), serveCmd(logger))
	return cmd
}
