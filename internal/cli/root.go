// Package cli implements the kumiai command line: a small event demo and a
// churn/iteration benchmark with optional profiling.
package cli

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edwinsyarief/kumiai"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	NoColor bool
}

// NewRootCommand creates the root command for the kumiai CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kumiai",
		Short: "kumiai entity manager tools",
		Long:  "Demo and benchmark drivers for the kumiai entity manager.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log manager internals at debug level")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewBenchCommand(opts))

	return cmd
}

// newLogger writes human readable output to w.
func newLogger(opts *RootOptions, w io.Writer) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if opts.Verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor, PartsExclude: []string{zerolog.TimestampFieldName}}).
		Level(lvl).
		With().Timestamp().Logger()
}

// managerOptions wires the environment config and the CLI logger into a
// manager.
func managerOptions(logger zerolog.Logger) ([]kumiai.Option, error) {
	cfg, err := kumiai.LoadConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load config")
	}
	return []kumiai.Option{kumiai.WithLogger(logger), kumiai.WithConfig(cfg)}, nil
}
