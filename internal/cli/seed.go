package cli

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/stefantagarski/event-service/internal/database/mongodb"
	"github.com/stefantagarski/event-service/internal/kafka"
	"github.com/stefantagarski/event-service/internal/lock"
	"github.com/stefantagarski/event-service/internal/seeder"
)

func newSeedCommand(a *app) *cobra.Command {
	var opts seeder.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the events collection and indexes and insert the sample events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSeed(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "drop the events collection first")
	cmd.Flags().BoolVar(&opts.SkipSamples, "skip-samples", false, "provision collection and indexes only")
	return cmd
}

func (a *app) runSeed(ctx context.Context, opts seeder.Options) error {
	set, err := a.loadFixtures()
	if err != nil {
		return err
	}

	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	s := seeder.New(mongodb.NewStore(client, set.Database, a.log), a.log, a.out)

	if addr := a.cfg.Redis.Addr; addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection error: %w", err)
		}
		a.log.Info("LOCK", fmt.Sprintf("Seed lock enabled via Redis at %s", addr))
		s.Locker = lock.NewSeedLock(rdb, set.Database, a.cfg.Redis.LockTTL)
	}

	if a.cfg.Kafka.Enabled {
		topic := a.cfg.Kafka.Topics.EventsSeeded
		if err := kafka.EnsureTopicsExist(a.cfg.Kafka.Brokers, []string{topic}, a.log); err != nil {
			a.log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(a.cfg.Kafka.Brokers, topic, a.log)
		defer producer.Close()
		s.Publisher = producer
	}

	return s.Run(ctx, set, opts)
}
