// Package main provides the entry point for the filmorate CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalConfig  string
	globalEnvFile string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "filmorate",
		Short:         "An in-memory catalog of films and users with friendships, likes and rankings",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfig, "config", "c", "", "Config file (default .filmorate/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalEnvFile, "env-file", "", "Dotenv file to load before reading config (default .env if present)")

	rootCmd.AddCommand(
		newInitCmd(),
		newServeCmd(),
		newCheckCmd(),
		newConfigCmd(),
	)

	return rootCmd
}
