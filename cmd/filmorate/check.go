package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ersonp/filmorate/internal/application/handlers"
)

type checkFlags struct {
	format string
}

func newCheckCmd() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check <seed-file>",
		Short: "Validate a seed file",
		Long:  "Loads a seed file into a scratch catalog and reports every record that would be rejected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", DefaultSeedFormat, "File format (json, yaml, auto)")

	return cmd
}

func runCheck(cmd *cobra.Command, filePath string, flags checkFlags) error {
	if !slices.Contains(validSeedFormats, flags.format) {
		return fmt.Errorf("invalid --format value %q (valid: %v)", flags.format, validSeedFormats)
	}

	return withDeps(func(d *Deps) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Checking %s...\n", filePath)

		result, err := d.Seed.Handle(cmd.Context(), filePath, handlers.SeedOptions{Format: flags.format})
		if err != nil {
			return fmt.Errorf("checking file: %w", err)
		}

		printSeedResult(out, result)

		if len(result.Errors) > 0 {
			return fmt.Errorf("%d invalid records", len(result.Errors))
		}
		return nil
	})
}

func printSeedResult(out io.Writer, result *handlers.SeedResult) {
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nValidation errors (%d):\n", len(result.Errors))
		for i, e := range result.Errors {
			if i == MaxErrorsDisplayed {
				fmt.Fprintf(out, "  ... and %d more\n", len(result.Errors)-i)
				break
			}
			fmt.Fprintf(out, "  %s\n", e.Error())
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Would load: %d users, %d films, %d friendships, %d likes",
		result.Participants, result.Works, result.Friendships, result.Likes)
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, ", %d errors", len(result.Errors))
	}
	fmt.Fprintln(out)
}
