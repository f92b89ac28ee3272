package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/config"
	"github.com/roach88/alchemist/internal/store"
	"github.com/roach88/alchemist/internal/validate"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is the loaded config file merged with the flags above.
	// Filled in by the root command before any subcommand runs.
	Config config.Config

	// Logger receives structured logs; nil discards them.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the alchemist CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "alchemist",
		Short: "Data Alchemist - validate and query resource-allocation spreadsheets",
		Long: `Ingest clients, workers and tasks spreadsheets (CSV or XLSX), validate
every cell, filter rows with a small query language, edit cells and export
the cleaned data with its findings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./"+config.DefaultFileName+")")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// resolve loads the config file, lets explicitly set flags win over it and
// installs the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if cmd.Flags().Changed("format") {
		cfg.Format = o.Format
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = o.Verbose
	}
	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}

	o.Config = cfg
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose

	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	return nil
}

// logger returns the configured logger, or one that discards everything.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// journalPath returns the configured journal, defaulting to memory.
func (o *RootOptions) journalPath() string {
	if o.Config.Journal != "" {
		return o.Config.Journal
	}
	return store.MemoryPath
}

// validateOptions maps the config onto validation options.
func (o *RootOptions) validateOptions() []validate.Option {
	if o.Config.DuplicateIDs == "" {
		return nil
	}
	return []validate.Option{validate.WithDuplicateIDMode(o.Config.DuplicateIDMode())}
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
