package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"schedlint/internal/analysis"
	"schedlint/internal/cache"
	"schedlint/internal/categorize"
	"schedlint/internal/diagfmt"
	"schedlint/internal/pipeline"
	"schedlint/internal/settings"
	"schedlint/internal/source"
	"schedlint/internal/ui"
	"schedlint/internal/version"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <source>",
	Short: "Check a timetable and report warnings and conflicts",
	Long: `Analyze loads a timetable from <source> and runs the rule table over it.

A source is a database URL (postgres://..., sqlite:...) or a file
(.db/.sqlite, .csv, .json, .xlsx, .mp snapshot).

Exit status is 1 when at least one conflict is found (or any warning with
--warnings-as-errors), 2 on usage errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("settings", "", "rule settings file (default: search upwards from the current directory)")
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	analyzeCmd.Flags().String("classify", "keyword", "categorization policy (keyword|tag)")
	analyzeCmd.Flags().Bool("parallel", false, "run rules concurrently")
	analyzeCmd.Flags().Int("jobs", 0, "max concurrent rules with --parallel (0 = number of rules)")
	analyzeCmd.Flags().Bool("cache", false, "reuse decoded file sources from the disk cache")
	analyzeCmd.Flags().String("ui", "off", "interactive result viewer (auto|on|off)")
	analyzeCmd.Flags().String("page", "conflicts", "first viewer page (conflicts|warnings|schedule)")
	analyzeCmd.Flags().Bool("no-warnings", false, "hide warnings from the output")
	analyzeCmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 when warnings are present")
	analyzeCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	analyzeCmd.Flags().String("table", source.DefaultTable, "SQL table holding the timetable")
	analyzeCmd.Flags().String("sheet", "", "spreadsheet sheet holding the timetable (default: first sheet)")
}

type analyzeFlags struct {
	settingsPath     string
	format           string
	classify         string
	parallel         bool
	jobs             int
	useCache         bool
	ui               uiMode
	page             ui.PageKind
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	table            string
	sheet            string
	quiet            bool
	timings          bool
	maxDiagnostics   int
}

func readAnalyzeFlags(cmd *cobra.Command) (analyzeFlags, error) {
	var (
		f   analyzeFlags
		err error
	)
	if f.settingsPath, err = cmd.Flags().GetString("settings"); err != nil {
		return f, fmt.Errorf("failed to get settings flag: %w", err)
	}
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	f.format = strings.ToLower(strings.TrimSpace(f.format))
	switch f.format {
	case "pretty", "short", "json", "sarif":
	default:
		return f, fmt.Errorf("unsupported format %q (must be pretty, short, json or sarif)", f.format)
	}
	if f.classify, err = cmd.Flags().GetString("classify"); err != nil {
		return f, fmt.Errorf("failed to get classify flag: %w", err)
	}
	if f.parallel, err = cmd.Flags().GetBool("parallel"); err != nil {
		return f, fmt.Errorf("failed to get parallel flag: %w", err)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.jobs < 0 {
		return f, fmt.Errorf("--jobs must be >= 0")
	}
	if f.useCache, err = cmd.Flags().GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	pageValue, err := cmd.Flags().GetString("page")
	if err != nil {
		return f, fmt.Errorf("failed to get page flag: %w", err)
	}
	if f.page, err = ui.ParsePageKind(pageValue); err != nil {
		return f, err
	}
	if f.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.table, err = cmd.Flags().GetString("table"); err != nil {
		return f, fmt.Errorf("failed to get table flag: %w", err)
	}
	if f.sheet, err = cmd.Flags().GetString("sheet"); err != nil {
		return f, fmt.Errorf("failed to get sheet flag: %w", err)
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.maxDiagnostics < 0 {
		return f, fmt.Errorf("--max-diagnostics must be >= 0")
	}
	return f, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	flags, err := readAnalyzeFlags(cmd)
	if err != nil {
		return err
	}
	policy, err := categorize.ParsePolicy(flags.classify)
	if err != nil {
		return err
	}
	colorOut, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()
	src := args[0]

	settingsPath, err := resolveSettingsPath(flags.settingsPath)
	if err != nil {
		return err
	}
	if settingsPath != "" && !flags.quiet {
		fmt.Fprintf(stderr, "settings: %s\n", settingsPath)
	}

	req := &pipeline.Request{
		Source:         src,
		SourceOptions:  source.Options{Table: flags.table, Sheet: flags.sheet},
		SettingsPath:   settingsPath,
		Policy:         policy,
		Engine:         analysis.Options{Parallel: flags.parallel, Jobs: flags.jobs},
		MaxDiagnostics: flags.maxDiagnostics,
	}
	if flags.useCache {
		c, cacheErr := cache.Open(cacheApp)
		if cacheErr != nil {
			// без кэша всё равно работаем
			fmt.Fprintf(stderr, "warning: cache disabled: %v\n", cacheErr)
		} else {
			req.Cache = c
		}
	}

	interactive := shouldUseTUI(flags.ui) && flags.format == "pretty"
	var res pipeline.Result
	if interactive {
		res, err = runAnalyzeWithUI(ctx, "schedlint "+filepath.Base(src), req)
	} else {
		res, err = pipeline.Analyze(ctx, req)
	}
	if err != nil {
		return err
	}
	if res.CacheHit && !flags.quiet {
		fmt.Fprintln(stderr, "cache: hit")
	}

	report := diagfmt.Report{
		Source:      src,
		Policy:      policy.Name(),
		Diagnostics: res.Diagnostics,
		Result:      res.Categorized,
	}
	if flags.noWarnings {
		report.Warnings = nil
		report.Diagnostics = report.Conflicts
	}

	if interactive {
		data := ui.Data{
			Title:     "schedlint " + src,
			Warnings:  report.Warnings,
			Conflicts: report.Conflicts,
			Entries:   res.Entries,
		}
		if err := ui.Run(ctx, data, flags.page); err != nil {
			return err
		}
	} else if err := writeReport(cmd.OutOrStdout(), report, flags, colorOut); err != nil {
		return err
	}

	if res.Truncated && !flags.quiet {
		fmt.Fprintf(stderr, "note: output limited to %d diagnostics\n", flags.maxDiagnostics)
	}
	if flags.timings && res.Timer != nil {
		fmt.Fprint(stderr, res.Timer.Summary())
	}
	if code := analyzeExitCode(res.Categorized, flags.warningsAsErrors); code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

// resolveSettingsPath returns the explicit path or, when empty, the first
// settings file found from the working directory upwards.
func resolveSettingsPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	path, ok, err := settings.Find(wd)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return path, nil
}

func writeReport(out io.Writer, report diagfmt.Report, flags analyzeFlags, colorOut bool) error {
	switch flags.format {
	case "short":
		return diagfmt.Short(out, report, flags.withNotes)
	case "json":
		return diagfmt.JSON(out, report, diagfmt.JSONOpts{
			IncludeNotes: flags.withNotes,
			Indent:       true,
		})
	case "sarif":
		return diagfmt.Sarif(out, report, diagfmt.SarifRunMeta{
			ToolName:       "schedlint",
			ToolVersion:    version.Get().Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		return diagfmt.Pretty(out, report, diagfmt.PrettyOpts{
			Color:      colorOut,
			ShowNotes:  flags.withNotes,
			ShowCodes:  true,
			NoWarnings: flags.noWarnings,
		})
	}
}

// analyzeExitCode uses the categorized findings so --no-warnings does not
// change the status.
func analyzeExitCode(c categorize.Result, warningsAsErrors bool) int {
	if c.HasConflicts() {
		return 1
	}
	if warningsAsErrors && len(c.Warnings) > 0 {
		return 1
	}
	return 0
}
