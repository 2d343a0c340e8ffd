// Command hospitalmrf downloads hospital standard-charge MRF files,
// filters and transforms them, and loads them into Postgres.
//
// Grounded on gyeh-price-is-right/cmd/npi-rates/main.go's cobra command
// tree and double-SIGINT shutdown idiom, and on parser/main.go's
// flag/connection/init-schema flow.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospitalmrf",
		Short: "Ingest hospital standard-charge MRF files into Postgres",
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withShutdownSignal returns a context cancelled on the first SIGINT/SIGTERM
// and force-exits the process on a second one, for callers doing
// long-running work that should stop cleanly rather than mid-transaction.
func withShutdownSignal() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %s, shutting down... (^C again to force quit)\n", sig)
		cancel()
		sig = <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %s, force quit.\n", sig)
		os.Exit(1)
	}()
	return ctx, cancel
}
