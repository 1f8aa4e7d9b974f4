package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leengari/secindex/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell (default)",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.shutdown()

	// piped input runs as a script
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		return repl.Run(a.engine, os.Stdin, cmd.OutOrStdout())
	}

	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".secidx_history")
	}
	return repl.Start(a.engine, history)
}
