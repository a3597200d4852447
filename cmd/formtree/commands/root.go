package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrInvalid is returned by validate when the input does not validate. The
// report has already been written.
var ErrInvalid = errors.New("input is invalid")

// app carries state shared by subcommands once the root has configured it.
type app struct {
	cfg Config
	log zerolog.Logger
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	return newRootCommand(version, commit, buildDate).ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	a := &app{log: zerolog.Nop()}
	var flags Config

	rootCmd := &cobra.Command{
		Use:   "formtree",
		Short: "Bind, flatten and validate data against formtree schemas",
		Long: `formtree loads a schema declared in YAML and binds input documents to it.

Input is JSON, YAML or a flat query string (name_0_field=value).
Environment:
  FORMTREE_LOG_LEVEL   debug|info|warn|error (default info)
  FORMTREE_LOG_FORMAT  console|json (default console)
  FORMTREE_FLAT_SEP    flat name separator (default _)
  FORMTREE_PATH_SEP    path separator (default .)
  FORMTREE_LANG        message language: en|ja (default en)`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			pf := cmd.Flags()
			if pf.Changed("log-level") {
				cfg.LogLevel = flags.LogLevel
			}
			if pf.Changed("log-format") {
				cfg.LogFormat = flags.LogFormat
			}
			if pf.Changed("flat-sep") {
				cfg.FlatSep = flags.FlatSep
			}
			if pf.Changed("path-sep") {
				cfg.PathSep = flags.PathSep
			}
			if pf.Changed("lang") {
				cfg.Lang = flags.Lang
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, logger
			log.Logger = logger
			return nil
		},
	}

	// Persistent flags available to all commands
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.LogLevel, "log-level", "info", "log level (overrides FORMTREE_LOG_LEVEL)")
	pf.StringVar(&flags.LogFormat, "log-format", "console", "log format (overrides FORMTREE_LOG_FORMAT)")
	pf.StringVar(&flags.FlatSep, "flat-sep", "_", "flat name separator (overrides FORMTREE_FLAT_SEP)")
	pf.StringVar(&flags.PathSep, "path-sep", ".", "path separator (overrides FORMTREE_PATH_SEP)")
	pf.StringVar(&flags.Lang, "lang", "en", "message language (overrides FORMTREE_LANG)")

	rootCmd.AddCommand(newFlattenCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newJSONSchemaCommand(a))
	rootCmd.AddCommand(newDumpCommand(a))

	return rootCmd
}
