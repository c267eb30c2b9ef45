package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefantagarski/event-service/internal/database/mongodb"
	"github.com/stefantagarski/event-service/internal/seeder"
)

var errVerifyFailed = errors.New("verification failed")

func newVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the collection, indexes and sample events are in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd.Context())
		},
	}
}

func (a *app) runVerify(ctx context.Context) error {
	set, err := a.loadFixtures()
	if err != nil {
		return err
	}

	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	report, err := seeder.Verify(ctx, mongodb.NewStore(client, set.Database, a.log), set)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, report.String())
	if !report.OK() {
		return errVerifyFailed
	}
	return nil
}
