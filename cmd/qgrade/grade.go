package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/qgrade/app"
	"github.com/ludo-technologies/qgrade/domain"
	"github.com/ludo-technologies/qgrade/internal/config"
	"github.com/ludo-technologies/qgrade/service"
)

// CheckExitError is a custom error type for grade command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

type gradeOptions struct {
	configPath  string
	format      string
	json        bool
	projectRoot string
	marker      string
	noIgnore    bool
	exclude     []string
	delimiter   string
	metricsFile string
	noColor     bool
	verbose     bool
}

func gradeCmd() *cobra.Command {
	opts := &gradeOptions{}

	cmd := &cobra.Command{
		Use:     "grade [source...]",
		Aliases: []string{"check"},
		Short:   "Grade a static-analysis export",
		Long: `Grade dependency and metric exports against the fixed quality thresholds.

Sources are export files, directories containing exports, or storage URLs.
Without arguments the sources listed in the config file are used.

Exit codes:
  0 - No critical violations (violations in ignored files are allowed)
  1 - Critical violations found
  2 - Error (missing file, parse error, invalid config, empty export)

Examples:
  # Grade two exports
  qgrade grade deps.csv metrics.csv

  # Grade every export in a directory, files relative to ./src
  qgrade grade --project-root src exports/

  # JSON output for machine parsing
  qgrade grade --json exports/

  # Ignore marker checks disabled, Prometheus textfile written
  qgrade grade --no-ignore --metrics-file qgrade.prom exports/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd, opts, args)
		},
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text",
		"Output format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.json, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&opts.projectRoot, "project-root", "r", "",
		"Directory the exported file names are relative to")
	cmd.Flags().StringVar(&opts.marker, "marker", "",
		"Ignore marker looked for on the first line of violating files")
	cmd.Flags().BoolVar(&opts.noIgnore, "no-ignore", false,
		"Do not read ignore markers; every violating file is critical")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil,
		"Exclude files matching pattern (gitignore syntax, repeatable)")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", "",
		"Export field delimiter (single character)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "",
		"Write grades to a Prometheus textfile")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false,
		"Disable styled text output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log progress details to stderr")

	return cmd
}

func runGrade(cmd *cobra.Command, opts *gradeOptions, args []string) error {
	if err := config.LoadDotEnv("."); err != nil {
		return &CheckExitError{Code: domain.ExitCodeError, Message: fmt.Sprintf("failed to load .env: %v", err)}
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeError, Message: domain.NewConfigError("failed to load configuration", err).Error()}
	}

	applyGradeFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return &CheckExitError{Code: domain.ExitCodeError, Message: domain.NewConfigError("invalid configuration", err).Error()}
	}

	sources := args
	if len(sources) == 0 {
		sources = cfg.Input.Sources
	}
	if len(sources) == 0 {
		return &CheckExitError{Code: domain.ExitCodeError, Message: "no export sources specified"}
	}

	logger := newLogger(cmd, cfg.Output.Verbose)

	// Progress bars only for the text report; JSON/YAML go to pipes
	pm := service.NewProgressManager(cfg.Output.Format == string(domain.OutputFormatText))
	defer pm.Close()

	uc, err := app.NewGradeUseCaseBuilder().
		WithService(service.NewGradingService(&cfg.Performance, pm).WithLogger(logger)).
		WithFormatter(service.NewOutputFormatter(cfg.Output.Color)).
		WithExporter(service.NewPrometheusExporter()).
		WithLogger(logger).
		Build()
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeError, Message: err.Error()}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := uc.Execute(ctx, domain.GradeRequest{
		Sources:         sources,
		Delimiter:       cfg.DelimiterRune(),
		Comment:         cfg.CommentRune(),
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		IgnoreEnabled:   cfg.Ignore.Enabled,
		IgnoreMarker:    cfg.Ignore.Marker,
		ProjectRoot:     cfg.Ignore.ProjectRoot,
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		OutputWriter:    cmd.OutOrStdout(),
		MetricsFile:     cfg.Output.MetricsFile,
		Color:           cfg.Output.Color,
		Verbose:         cfg.Output.Verbose,
		ConfigPath:      opts.configPath,
	})
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeError, Message: err.Error()}
	}

	if resp.ExitCode != domain.ExitCodePass {
		return &CheckExitError{Code: resp.ExitCode}
	}
	return nil
}

// applyGradeFlags lets flags set on the command line win over config values
func applyGradeFlags(cmd *cobra.Command, opts *gradeOptions, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if opts.json {
		cfg.Output.Format = string(domain.OutputFormatJSON)
	}
	if flags.Changed("project-root") {
		cfg.Ignore.ProjectRoot = opts.projectRoot
	}
	if flags.Changed("marker") {
		cfg.Ignore.Marker = opts.marker
	}
	if opts.noIgnore {
		cfg.Ignore.Enabled = false
	}
	if flags.Changed("exclude") {
		cfg.Analysis.ExcludePatterns = append(cfg.Analysis.ExcludePatterns, opts.exclude...)
	}
	if flags.Changed("delimiter") {
		cfg.Input.Delimiter = opts.delimiter
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = opts.metricsFile
	}
	if opts.noColor {
		cfg.Output.Color = false
	}
	if opts.verbose {
		cfg.Output.Verbose = true
	}
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
