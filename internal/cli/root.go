// Package cli implements the touchtable command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/phanxgames/touchtable"
	"github.com/phanxgames/touchtable/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Debug      bool

	// Set by PersistentPreRunE.
	Config *config.Config
	Log    zerolog.Logger
}

// NewRootCommand creates the root command for the touchtable CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "touchtable",
		Short: "Multi-touch manipulation for tabletop scenes",
		Long: `touchtable drives drag-and-snap, rotation, stroke duplication and pinch
gestures over a table of parts, either in a window or from a recorded script.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (default $TOUCHTABLE_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level; overrides the config")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log every claim, release and session transition")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func (o *RootOptions) setup(stderr io.Writer) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Debug {
		cfg.Debug = true
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: log level %q", config.ErrInvalidConfig, cfg.LogLevel)
	}
	if cfg.Debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	o.Config = cfg
	o.Log = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()
	touchtable.SetLogger(o.Log)
	touchtable.SetDebugMode(cfg.Debug)
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
