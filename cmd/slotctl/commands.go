package main

import (
	"context"
	"courier-slot-service/internal/adapters/repositories"
	"courier-slot-service/internal/app"
	"courier-slot-service/internal/config"
	"courier-slot-service/internal/platform/db"
	"courier-slot-service/internal/platform/logging"
	"courier-slot-service/internal/services"
	"courier-slot-service/internal/stations"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "slotctl",
		Short:         "Courier slot scheduling tools",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = logging.SetupWithWriter(config.Get("APP_ENV", "development"), cmd.ErrOrStderr())
		},
	}

	root.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newEstimateCmd(opts),
		newSlotsCmd(opts),
		newCheckCmd(opts),
	)
	return root
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			opts.logger.Info().Msg("initializing database schema")
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			opts.logger.Info().Msg("schema ready")
			return nil
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [path]",
		Short: "Load bookings from a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := config.Get("SEED_PATH", "data/seeds/bookings.json")
			if len(args) == 1 {
				path = args[0]
			}

			rules, err := config.LoadRules(config.Get("RULES_PATH", "data/rules.yml"))
			if err != nil {
				return err
			}

			conn, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}

			n, err := repositories.SeedFromJSON(ctx, conn, path, rules.Location)
			if err != nil {
				return err
			}
			opts.logger.Info().Int("inserted", n).Str("path", path).Msg("seeding complete")
			return nil
		},
	}
}

// estimate needs no database: it answers from the station dataset alone.
func newEstimateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <from> <to>",
		Short: "Estimate travel minutes between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := stations.Load(config.Get("STATIONS_PATH", "data/stations.geojson"), opts.logger)
			if err != nil {
				return err
			}

			est := services.NewEstimator(idx, services.DefaultEstimatorParams())
			minutes, ok := est.Estimate(args[0], args[1])
			if !ok {
				return fmt.Errorf("unresolved: %q -> %q", args[0], args[1])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", minutes)
			return nil
		},
	}
}

func newSlotsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slots <date> <station>",
		Short: "List open delivery times for a station",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			slots, err := a.Availability.EnumerateAvailableSlots(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := make([]string, 0, len(slots))
			for _, s := range slots {
				out = append(out, s.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, " "))
			return nil
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <date> <time> <station>",
		Short: "Check whether a delivery slot can be booked",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.Availability.CheckAvailability(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}

			if v.Available {
				fmt.Fprintln(cmd.OutOrStdout(), "available")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unavailable (%s): %s\n", v.Rule, v.Reason())
			return errUnavailable
		},
	}
}

var errUnavailable = errors.New("slot unavailable")

func openDB(ctx context.Context) (*sql.DB, error) {
	url := strings.TrimSpace(config.Get("DATABASE_URL", ""))
	if url == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return db.Open(ctx, url)
}

func newApp(ctx context.Context, opts *rootOptions) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, opts.logger)
}
