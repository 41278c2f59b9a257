package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/axkit/redisfacade"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewInfoCommand creates the info command.
func NewInfoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "info [section...]",
		Short:        "Print server INFO as key/value pairs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			srv, err := rs.Server()
			if err != nil {
				return err
			}
			info, err := srv.Info(cmd.Context(), args...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(w, info.Map())
			}
			for _, k := range info.Keys() {
				v, _ := info.Get(k)
				fmt.Fprintf(w, "%s: %s\n", k, v)
			}
			return nil
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "get <key>",
		Short:        "Print the raw payload stored under a key",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			b, found, err := rs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(w, map[string]interface{}{"key": args[0], "found": found, "value": string(b)})
			}
			if !found {
				fmt.Fprintln(w, "(nil)")
				return nil
			}
			fmt.Fprintln(w, string(b))
			return nil
		},
	}
}

// NewSetCommand creates the set command.
func NewSetCommand(opts *RootOptions) *cobra.Command {
	var (
		ttl    time.Duration
		nx     bool
		encode bool
	)
	cmd := &cobra.Command{
		Use:          "set <key> <value>",
		Short:        "Store a value under a key",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			when := redisfacade.WhenAlways
			if nx {
				when = redisfacade.WhenNotExists
			}

			var ok bool
			if encode {
				ok, err = redisfacade.For[string](rs).SetWhen(cmd.Context(), args[0], args[1], ttl, when, redisfacade.FlagNone)
			} else {
				ok, err = rs.Set(cmd.Context(), args[0], []byte(args[1]), ttl, when, redisfacade.FlagNone)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(w, map[string]interface{}{"key": args[0], "set": ok})
			}
			if ok {
				fmt.Fprintln(w, "OK")
			} else {
				fmt.Fprintln(w, "not set")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "expiration, 0 for none")
	cmd.Flags().BoolVar(&nx, "nx", false, "only set when the key does not exist")
	cmd.Flags().BoolVar(&encode, "encode", false, "encode the value as a string with the configured codec")
	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "count <prefix>",
		Short:        "Count keys starting with a prefix",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := rs.CountByPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCount(cmd.OutOrStdout(), opts.Format, "count", n)
		},
	}
}

// NewDeletePrefixCommand creates the delete-prefix command.
func NewDeletePrefixCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "delete-prefix <prefix>",
		Short:        "Delete every key starting with a prefix",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := rs.DeleteByPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCount(cmd.OutOrStdout(), opts.Format, "deleted", n)
		},
	}
}

func printCount(w io.Writer, format, name string, n int64) error {
	if format == "json" {
		return writeJSON(w, map[string]int64{name: n})
	}
	_, err := fmt.Fprintln(w, n)
	return err
}

// NewPublishCommand creates the publish command.
func NewPublishCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "publish <channel> <message>",
		Short:        "Publish a raw message",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := rs.Publish(cmd.Context(), args[0], []byte(args[1]))
			if err != nil {
				return err
			}
			return printCount(cmd.OutOrStdout(), opts.Format, "receivers", n)
		},
	}
}

// NewSubscribeCommand creates the subscribe command.
func NewSubscribeCommand(opts *RootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:          "subscribe <channel>",
		Short:        "Print messages published on a channel",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs, err := opts.open(ctx)
			if err != nil {
				return err
			}

			msgs := make(chan redisfacade.Message[interface{}], 16)
			stop := make(chan struct{})
			h := redisfacade.HandlerFunc(func(m redisfacade.Message[interface{}]) {
				select {
				case msgs <- m:
				case <-stop:
				case <-ctx.Done():
				}
			})
			typed := redisfacade.For[interface{}](rs)
			if err := typed.Subscribe(ctx, args[0], h); err != nil {
				return err
			}
			defer func() {
				// unblock the handler before dropping the subscription
				close(stop)
				typed.Unsubscribe(context.Background(), args[0], h)
			}()

			w := cmd.OutOrStdout()
			for received := 0; count <= 0 || received < count; received++ {
				select {
				case <-ctx.Done():
					return nil
				case m := <-msgs:
					if opts.Format == "json" {
						if err := writeJSON(w, map[string]interface{}{"channel": m.Channel, "message": m.Payload}); err != nil {
							return err
						}
						continue
					}
					fmt.Fprintf(w, "%s: %v\n", m.Channel, m.Payload)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after n messages, 0 to run until interrupted")
	return cmd
}
