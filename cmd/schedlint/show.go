package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"schedlint/internal/diag"
	"schedlint/internal/diagfmt"
	"schedlint/internal/schedule"
	"schedlint/internal/source"
	"schedlint/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <source>",
	Short: "Print a timetable, optionally filtered",
	Long: `Show loads a timetable and prints the entries that pass the filters,
grouped by day. Filters compare exactly; dates also match across formats
(2024-09-02 matches 02.09.2024).`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("group", "", "only this group")
	showCmd.Flags().String("teacher", "", "only this teacher")
	showCmd.Flags().String("classroom", "", "only this classroom")
	showCmd.Flags().String("date", "", "only this date")
	showCmd.Flags().String("list", "", "print distinct values of a column instead (group|teacher|classroom|date|...)")
	showCmd.Flags().String("format", "table", "output format (table|json|csv|snapshot)")
	showCmd.Flags().StringP("output", "o", "", "write to file instead of stdout (required for snapshot)")
	showCmd.Flags().Int("width", 0, "table width (default: terminal width or 120)")
	showCmd.Flags().String("table", source.DefaultTable, "SQL table holding the timetable")
	showCmd.Flags().String("sheet", "", "spreadsheet sheet holding the timetable (default: first sheet)")
}

func runShow(cmd *cobra.Command, args []string) error {
	var (
		filter schedule.Filter
		opts   source.Options
		err    error
	)
	if filter.Group, err = cmd.Flags().GetString("group"); err != nil {
		return fmt.Errorf("failed to get group flag: %w", err)
	}
	if filter.Teacher, err = cmd.Flags().GetString("teacher"); err != nil {
		return fmt.Errorf("failed to get teacher flag: %w", err)
	}
	if filter.Classroom, err = cmd.Flags().GetString("classroom"); err != nil {
		return fmt.Errorf("failed to get classroom flag: %w", err)
	}
	if filter.Date, err = cmd.Flags().GetString("date"); err != nil {
		return fmt.Errorf("failed to get date flag: %w", err)
	}
	listColumn, err := cmd.Flags().GetString("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	if opts.Table, err = cmd.Flags().GetString("table"); err != nil {
		return fmt.Errorf("failed to get table flag: %w", err)
	}
	if opts.Sheet, err = cmd.Flags().GetString("sheet"); err != nil {
		return fmt.Errorf("failed to get sheet flag: %w", err)
	}

	switch format {
	case "table", "json", "csv":
	case "snapshot":
		if outputPath == "" {
			return fmt.Errorf("--format snapshot needs --output")
		}
	default:
		return fmt.Errorf("unsupported format %q (must be table, json, csv or snapshot)", format)
	}

	var column schedule.Column
	if listColumn != "" {
		if column, err = parseColumn(listColumn); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	bag := diag.NewBag(0)
	entries := source.Load(ctx, args[0], opts, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		if err := diagfmt.Short(cmd.ErrOrStderr(), diagfmt.NewReport(args[0], bag.Items(), nil), false); err != nil {
			return err
		}
		return &exitCodeError{code: 1}
	}
	entries = filter.Apply(entries)

	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if listColumn != "" {
		return writeDistinct(out, format, schedule.DistinctValues(entries, column))
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "csv":
		return writeEntriesCSV(out, entries)
	case "snapshot":
		return source.WriteSnapshot(out, entries)
	}
	if width <= 0 {
		width = terminalWidth()
	}
	_, err = fmt.Fprintln(out, ui.RenderSchedule(entries, width))
	return err
}

func parseColumn(name string) (schedule.Column, error) {
	for _, c := range schedule.Columns {
		if strings.EqualFold(strings.TrimSpace(name), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", name)
}

func writeDistinct(out io.Writer, format string, values []string) error {
	if format == "json" {
		if values == nil {
			values = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(out, v); err != nil {
			return err
		}
	}
	return nil
}

func writeEntriesCSV(out io.Writer, entries []schedule.Entry) error {
	w := csv.NewWriter(out)
	header := make([]string, 0, schedule.NumColumns)
	for _, c := range schedule.Columns {
		header = append(header, c.String())
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		fields := e.Fields()
		if err := w.Write(fields[:]); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func terminalWidth() int {
	if isTerminal(os.Stdout) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 120
}
