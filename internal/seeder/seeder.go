package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/stefantagarski/event-service/internal/fixtures"
	"github.com/stefantagarski/event-service/internal/logger"
	"github.com/stefantagarski/event-service/internal/models"
)

// SuccessMessage is written to Out once a run completes.
const SuccessMessage = "Database initialized successfully!"

var ErrLocked = errors.New("another seed run holds the lock")

// Store is the document database the seeder provisions.
type Store interface {
	Database() string
	EnsureCollection(ctx context.Context, name string) error
	DropCollection(ctx context.Context, name string) error
	CreateIndexes(ctx context.Context, collection string, specs []fixtures.IndexSpec) ([]string, error)
	InsertEvents(ctx context.Context, collection string, events []models.Event) ([]models.Event, error)
}

type Locker interface {
	Acquire(ctx context.Context, owner string) (bool, error)
	Release(ctx context.Context, owner string) error
}

type Publisher interface {
	PublishEventsSeeded(ctx context.Context, runID string, events []models.Event) error
}

type Options struct {
	// Reset drops the collection before provisioning it.
	Reset bool
	// SkipSamples provisions the collection and indexes only.
	SkipSamples bool
}

// Seeder provisions the events collection, its indexes and the sample
// events. Locker and Publisher are optional.
type Seeder struct {
	Store     Store
	Locker    Locker
	Publisher Publisher
	Logger    *logger.Logger
	Out       io.Writer

	Now      func() time.Time
	NewRunID func() string
}

func New(store Store, log *logger.Logger, out io.Writer) *Seeder {
	return &Seeder{
		Store:    store,
		Logger:   log,
		Out:      out,
		Now:      time.Now,
		NewRunID: func() string { return uuid.New().String() },
	}
}

// Run executes one seed. The first store error aborts the run and is
// returned as is; writes are never retried.
func (s *Seeder) Run(ctx context.Context, set *fixtures.Set, opts Options) error {
	runID := s.NewRunID()
	s.Logger.LogSeed("START", fmt.Sprintf("run %s seeding %s.%s", runID, s.Store.Database(), set.Collection))

	if s.Locker != nil {
		ok, err := s.Locker.Acquire(ctx, runID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLocked
		}
		s.Logger.Debug("LOCK", fmt.Sprintf("Seed lock acquired by %s", runID))
		defer func() {
			if relErr := s.Locker.Release(context.WithoutCancel(ctx), runID); relErr != nil {
				s.Logger.Warn("LOCK", fmt.Sprintf("Failed to release seed lock: %v", relErr))
			}
		}()
	}

	if opts.Reset {
		if err := s.Store.DropCollection(ctx, set.Collection); err != nil {
			return err
		}
	}

	if err := s.Store.EnsureCollection(ctx, set.Collection); err != nil {
		return err
	}

	if _, err := s.Store.CreateIndexes(ctx, set.Collection, set.Indexes); err != nil {
		return err
	}

	if opts.SkipSamples {
		s.Logger.LogSeed("SAMPLES", "skipped")
	} else {
		inserted, err := s.Store.InsertEvents(ctx, set.Collection, set.Documents(s.Now()))
		if err != nil {
			return err
		}
		s.publish(ctx, runID, inserted)
	}

	s.Logger.LogSeed("DONE", fmt.Sprintf("run %s complete", runID))
	_, err := fmt.Fprintln(s.Out, SuccessMessage)
	return err
}

// publish is best effort: the documents are already stored, so a broker
// failure is reported but does not fail the run.
func (s *Seeder) publish(ctx context.Context, runID string, events []models.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishEventsSeeded(ctx, runID, events); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish seeded events: %v", err))
	}
}
