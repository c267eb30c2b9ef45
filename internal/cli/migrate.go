package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stefantagarski/event-service/internal/database/migrations"
)

func newMigrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the versioned events schema (collection and indexes)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(cmd.Context(), (*migrations.Runner).MigrateUp)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration, dropping the events collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(cmd.Context(), (*migrations.Runner).MigrateDown)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "to VERSION",
		Short: "Migrate up or down to VERSION",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return a.withRunner(cmd.Context(), func(r *migrations.Runner) error {
				return r.MigrateTo(uint(version))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(cmd.Context(), func(r *migrations.Runner) error {
				version, dirty, err := r.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

// withRunner connects, hands a migration runner to fn and closes it, which
// also disconnects the client.
func (a *app) withRunner(ctx context.Context, fn func(*migrations.Runner) error) error {
	set, err := a.loadFixtures()
	if err != nil {
		return err
	}

	client, err := a.connect(ctx)
	if err != nil {
		return err
	}

	runner := migrations.NewRunner(client, migrations.DefaultOptions(set.Database), a.log)
	defer func() {
		if err := runner.Close(); err != nil {
			a.log.Warn("MIGRATE", err.Error())
		}
	}()

	if err := runner.Initialize(); err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}
	return fn(runner)
}
