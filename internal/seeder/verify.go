package seeder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/stefantagarski/event-service/internal/fixtures"
	"github.com/stefantagarski/event-service/internal/models"
)

// Inspector reads back what a seed run provisioned.
type Inspector interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	ListIndexNames(ctx context.Context, collection string) ([]string, error)
	FindByTitle(ctx context.Context, collection, title string) ([]models.Event, error)
}

type Report struct {
	CollectionExists bool
	Indexes          []string
	MissingIndexes   []string
	ExtraIndexes     []string
	MissingEvents    []string
	Problems         []string
}

func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("OK: collection present, indexes [%s], sample events present", strings.Join(r.Indexes, ", "))
	}
	return "FAILED:\n  - " + strings.Join(r.Problems, "\n  - ")
}

// Verify checks that the collection exists, carries exactly the fixture
// indexes besides _id, and holds at least one document matching each
// fixture event field for field. A failed check is reported in the Report;
// only store errors are returned as errors.
func Verify(ctx context.Context, inspector Inspector, set *fixtures.Set) (*Report, error) {
	report := &Report{}

	exists, err := inspector.CollectionExists(ctx, set.Collection)
	if err != nil {
		return nil, err
	}
	report.CollectionExists = exists
	if !exists {
		report.Problems = append(report.Problems, fmt.Sprintf("collection %s does not exist", set.Collection))
		return report, nil
	}

	indexes, err := inspector.ListIndexNames(ctx, set.Collection)
	if err != nil {
		return nil, err
	}
	sort.Strings(indexes)
	report.Indexes = indexes

	report.MissingIndexes, report.ExtraIndexes = diff(set.IndexNames(), indexes)
	for _, name := range report.MissingIndexes {
		report.Problems = append(report.Problems, fmt.Sprintf("index %s is missing", name))
	}
	for _, name := range report.ExtraIndexes {
		report.Problems = append(report.Problems, fmt.Sprintf("unexpected index %s", name))
	}

	for _, fixture := range set.Events {
		found, err := inspector.FindByTitle(ctx, set.Collection, fixture.Title)
		if err != nil {
			return nil, err
		}
		if !anyMatch(fixture, found) {
			report.MissingEvents = append(report.MissingEvents, fixture.Title)
			report.Problems = append(report.Problems, fmt.Sprintf("sample event %q is missing", fixture.Title))
		}
	}

	return report, nil
}

func anyMatch(fixture fixtures.EventFixture, events []models.Event) bool {
	for _, e := range events {
		if fixture.Matches(e) {
			return true
		}
	}
	return false
}

func diff(want, got []string) (missing, extra []string) {
	have := make(map[string]bool, len(got))
	for _, name := range got {
		have[name] = true
	}
	expected := make(map[string]bool, len(want))
	for _, name := range want {
		expected[name] = true
		if !have[name] {
			missing = append(missing, name)
		}
	}
	for _, name := range got {
		if !expected[name] {
			extra = append(extra, name)
		}
	}
	return missing, extra
}
