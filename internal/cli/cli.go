// Package cli defines the weatherproxy command tree: the HTTP server plus
// read-only commands over the event log and snapshot store.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"weatherproxy.app/internal/core/weather"
	"weatherproxy.app/internal/ports"
)

const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Store is the read surface the inspection commands use
type Store interface {
	Events(ctx context.Context, request weather.EventsRequest) ([]ports.EventRecord, error)
	Snapshot(ctx context.Context, key string) (*ports.WeatherRecord, error)
}

// Options supplies the command actions
type Options struct {
	// Serve runs the HTTP server until ctx is cancelled
	Serve func(ctx context.Context) error
	// Open builds a Store and a func releasing it
	Open func() (Store, func() error, error)
}

func New(opts Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "weatherproxy",
		Short:         "Caching proxy for current weather conditions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(opts),
		newEventsCommand(opts),
		newSnapshotCommand(opts),
	)

	return root
}

func newServeCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.Serve(cmd.Context())
		},
	}
}

func newEventsCommand(opts Options) *cobra.Command {
	var (
		city   string
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Args:  cobra.NoArgs,
		Short: "List logged weather requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}

			return withStore(opts, func(store Store) error {
				events, err := store.Events(cmd.Context(), weather.EventsRequest{City: city, Limit: limit})
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, events)
			})
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "only show events for this city")
	cmd.Flags().IntVar(&limit, "limit", ports.DefaultEventLimit, "maximum number of events")
	cmd.Flags().StringVarP(&output, "output", "o", OutputJSON, "output format: json or yaml")

	return cmd
}

func newSnapshotCommand(opts Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot <key>",
		Args:  cobra.ExactArgs(1),
		Short: "Print a saved weather snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}

			return withStore(opts, func(store Store) error {
				record, err := store.Snapshot(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, record)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", OutputJSON, "output format: json or yaml")

	return cmd
}

func withStore(opts Options, fn func(Store) error) error {
	store, release, err := opts.Open()
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	return fn(store)
}

func checkOutput(format string) error {
	switch strings.ToLower(format) {
	case OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q, use json or yaml", format)
	}
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	if strings.ToLower(format) == OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
