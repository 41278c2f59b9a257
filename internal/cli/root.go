package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/axkit/redisfacade"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config     string
	Connection string
	DB         int
	Codec      string
	Namespace  string
	Verbose    bool
	Format     string // "json" | "text"

	farm *redisfacade.RedisFarm
	log  zerolog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the redisfacade CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "redisfacade",
		Short: "Inspect and manipulate a redis database",
		Long:  "Command line access to the redisfacade store: keys, prefixes, pub/sub and server info.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.log = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			opts.farm = redisfacade.NewRedisFarm(&opts.log, nil)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.farm != nil {
				opts.farm.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Connection, "conn", "", "connection identifier (overrides config)")
	cmd.PersistentFlags().IntVar(&opts.DB, "db", -1, "database index (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Codec, "codec", "", "payload codec: json|yaml|gob (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Namespace, "namespace", "", "key namespace (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewDeletePrefixCommand(opts))
	cmd.AddCommand(NewPublishCommand(opts))
	cmd.AddCommand(NewSubscribeCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

// config merges the config file with the command line overrides.
func (o *RootOptions) config() (*redisfacade.Config, error) {
	cfg := &redisfacade.Config{}
	if o.Config != "" {
		loaded, err := redisfacade.LoadConfig(o.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.Connection != "" {
		cfg.Connection = o.Connection
	}
	if o.DB >= 0 {
		cfg.DB = o.DB
	}
	if o.Codec != "" {
		cfg.Codec = o.Codec
	}
	if o.Namespace != "" {
		cfg.Namespace = o.Namespace
	}
	return cfg, cfg.Validate()
}

func (o *RootOptions) open(ctx context.Context) (*redisfacade.RedisStore, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	storeOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	storeOpts = append(storeOpts, redisfacade.WithFarm(o.farm), redisfacade.WithLogger(&o.log))
	return redisfacade.New(ctx, cfg.Connection, storeOpts...)
}
