package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Jaganpro/sf-schema-viewer/internal/cli"
)

// exitInterrupted is the conventional shell exit status for SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(os.Stderr, cli.LogInfo)
	root := app.RootCommand()
	wireVerboseFlag(app, root)

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitInterrupted)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// wireVerboseFlag adds --verbose and bumps the log level to debug before
// any subcommand runs, chaining to an existing PersistentPreRunE.
func wireVerboseFlag(app *cli.CLI, root *cobra.Command) {
	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	chained := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			app.SetLogLevel(cli.LogDebug)
		}
		if chained != nil {
			return chained(cmd, args)
		}
		return nil
	}
}
