package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"schedlint/internal/cache"
)

// cacheApp is the directory name under the user cache root.
const cacheApp = "schedlint"

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached timetables",
	Long:  "Remove the schedlint cache directory that analyze --cache fills with decoded timetables.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	dir, err := cache.DefaultDir(cacheApp)
	if err != nil {
		return fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	out := cmd.OutOrStdout()

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !quiet {
				_, _ = fmt.Fprintln(out, "cache directory not found")
			}
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	c, err := cache.OpenDir(dir)
	if err != nil {
		return err
	}
	if err := c.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", dir, err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(out, "removed %s\n", dir)
	}
	return nil
}
