package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	grpcAdapter "github.com/quentinrf/brightness-tracker/internal/adapters/grpc"
	"github.com/quentinrf/brightness-tracker/internal/domain"
	"github.com/quentinrf/brightness-tracker/pkg/tlsconfig"
)

// connOptions are the persistent flags shared by every subcommand
type connOptions struct {
	addr    string
	cert    string
	key     string
	ca      string
	timeout time.Duration
}

// dialFunc opens a client for the tracker at opts.addr; the returned func closes it
type dialFunc func(opts connOptions) (*grpcAdapter.Client, func() error, error)

func dialTracker(opts connOptions) (*grpcAdapter.Client, func() error, error) {
	creds := insecure.NewCredentials()
	if opts.cert != "" {
		tlsCfg, err := tlsconfig.LoadClientTLS(opts.cert, opts.key, opts.ca)
		if err != nil {
			return nil, nil, fmt.Errorf("loading TLS config: %w", err)
		}
		creds = credentials.NewTLS(tlsCfg)
	}

	conn, err := grpc.NewClient(opts.addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", opts.addr, err)
	}
	return grpcAdapter.NewClient(conn), conn.Close, nil
}

func newRootCmd(dial dialFunc) *cobra.Command {
	var opts connOptions

	root := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Control a running brightness tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.addr, "addr", "localhost:50051", "tracker gRPC address")
	flags.StringVar(&opts.cert, "tls-cert", "", "client certificate for mTLS")
	flags.StringVar(&opts.key, "tls-key", "", "client private key for mTLS")
	flags.StringVar(&opts.ca, "tls-ca", "", "CA certificate for mTLS")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-call timeout")
	root.MarkFlagsRequiredTogether("tls-cert", "tls-key", "tls-ca")

	// withClient runs call with a connected client and a bounded context
	withClient := func(cmd *cobra.Command, call func(context.Context, *grpcAdapter.Client) error) error {
		client, closeConn, err := dial(opts)
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
		defer cancel()
		return call(ctx, client)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start (or restart) the tracking session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, func(ctx context.Context, c *grpcAdapter.Client) error {
					if err := c.StartSession(ctx); err != nil {
						return fmt.Errorf("starting session: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Tracking started.")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the tracking session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, func(ctx context.Context, c *grpcAdapter.Client) error {
					if err := c.StopSession(ctx); err != nil {
						return fmt.Errorf("stopping session: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Tracking stopped.")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "sample <lux>",
			Short: "Report one brightness sample in lux (-1 for no reading)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lux, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid sample %q: %w", args[0], err)
				}
				return withClient(cmd, func(ctx context.Context, c *grpcAdapter.Client) error {
					return c.ReportBrightness(ctx, lux)
				})
			},
		},
		&cobra.Command{
			Use:   "threshold [value]",
			Short: "Set the threshold in lux; omit the value to disable detection",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				input := ""
				if len(args) == 1 {
					input = args[0]
				}
				return withClient(cmd, func(ctx context.Context, c *grpcAdapter.Client) error {
					threshold, err := c.SetThreshold(ctx, input)
					if err != nil {
						return fmt.Errorf("setting threshold: %w", err)
					}
					if !domain.IsThresholdSet(threshold) {
						fmt.Fprintln(cmd.OutOrStdout(), "Threshold disabled.")
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Threshold set to %d lx.\n", threshold)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "log",
			Short: "Print the durable event log",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, func(ctx context.Context, c *grpcAdapter.Client) error {
					text, err := c.Log(ctx)
					if err != nil {
						return fmt.Errorf("reading log: %w", err)
					}
					fmt.Fprint(cmd.OutOrStdout(), text)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Truncate the durable event log",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, func(ctx context.Context, c *grpcAdapter.Client) error {
					if err := c.ClearLog(ctx); err != nil {
						return fmt.Errorf("clearing log: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Log cleared.")
					return nil
				})
			},
		},
	)

	return root
}
