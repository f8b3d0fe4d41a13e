package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"schedlint/internal/diag"
	"schedlint/internal/diagfmt"
	"schedlint/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Create or inspect the rule settings file",
}

var settingsInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a settings file with the default values",
	Long: `Init writes the default settings document. The format follows the file
extension: .toml, .yaml/.yml, anything else is JSON. The default path is
schedlint.json in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsInit,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print the effective settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsShow,
}

func init() {
	settingsInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	settingsShowCmd.Flags().String("format", "", "output format (json|toml|yaml, default: same as the file)")

	settingsCmd.AddCommand(settingsInitCmd)
	settingsCmd.AddCommand(settingsShowCmd)
}

func runSettingsInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	path := settings.FileNames[0]
	if len(args) == 1 {
		path = args[0]
	}
	if !force {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %q: %w", path, statErr)
		}
	}
	if err := settings.Save(path, settings.Default()); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", "json", "toml", "yaml":
	default:
		return fmt.Errorf("unsupported format %q (must be json, toml or yaml)", format)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if path, err = resolveSettingsPath(""); err != nil {
		return err
	}

	bag := diag.NewBag(0)
	_, doc := settings.Load(path, diag.BagReporter{Bag: bag})
	if bag.Len() > 0 {
		if err := diagfmt.Short(cmd.ErrOrStderr(), diagfmt.NewReport(path, bag.Items(), nil), false); err != nil {
			return err
		}
	}
	if !quiet {
		origin := path
		if origin == "" {
			origin = "built-in defaults"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "settings: %s\n", origin)
	}

	// формат задаётся фиктивным расширением
	target := path
	if format != "" {
		target = "settings." + format
	}
	data, err := settings.Encode(target, doc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
