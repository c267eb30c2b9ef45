// Package fixtures holds the schema objects and sample events the seeder
// provisions, as static data rather than inline driver calls.
package fixtures

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefantagarski/event-service/internal/models"
)

//go:embed events.yaml
var defaultFixtures []byte

const (
	OrderText = "text"
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var (
	ErrInvalidIndexOrder = errors.New("invalid index order")
	ErrNoEvents          = errors.New("fixtures define no events")
)

type Set struct {
	Database   string         `yaml:"database"`
	Collection string         `yaml:"collection"`
	Indexes    []IndexSpec    `yaml:"indexes"`
	Events     []EventFixture `yaml:"events"`
}

type IndexSpec struct {
	// Name overrides the server generated index name.
	Name string     `yaml:"name,omitempty"`
	Keys []IndexKey `yaml:"keys"`
}

type IndexKey struct {
	Field string `yaml:"field"`
	Order string `yaml:"order"`
}

type EventFixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Location    string `yaml:"location"`
	Organizer   string `yaml:"organizer"`
	Capacity    int    `yaml:"capacity"`
}

// Default returns the built-in fixtures: database event_service, collection
// events, the text/date/created_at indexes and the two sample events.
func Default() (*Set, error) {
	return Load(bytes.NewReader(defaultFixtures))
}

func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func Load(r io.Reader) (*Set, error) {
	var set Set
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	if err := set.validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

func (s *Set) validate() error {
	if s.Database == "" {
		return errors.New("fixtures: database is required")
	}
	if s.Collection == "" {
		return errors.New("fixtures: collection is required")
	}
	for i, idx := range s.Indexes {
		if len(idx.Keys) == 0 {
			return fmt.Errorf("fixtures: index %d has no keys", i)
		}
		for _, key := range idx.Keys {
			if key.Field == "" {
				return fmt.Errorf("fixtures: index %d has a key without a field", i)
			}
			switch key.Order {
			case OrderText, OrderAsc, OrderDesc:
			default:
				return fmt.Errorf("%w %q on field %s", ErrInvalidIndexOrder, key.Order, key.Field)
			}
		}
	}
	if len(s.Events) == 0 {
		return ErrNoEvents
	}
	return nil
}

// IndexName is the name the index is created under. Without an explicit
// Name it matches the server default, e.g. "date_1" or "created_at_-1".
func (i IndexSpec) IndexName() string {
	if i.Name != "" {
		return i.Name
	}
	parts := make([]string, 0, len(i.Keys))
	for _, key := range i.Keys {
		parts = append(parts, key.Field+"_"+key.suffix())
	}
	return strings.Join(parts, "_")
}

func (k IndexKey) suffix() string {
	switch k.Order {
	case OrderText:
		return "text"
	case OrderDesc:
		return "-1"
	default:
		return "1"
	}
}

// IndexNames lists every index the set defines, in declaration order.
func (s *Set) IndexNames() []string {
	names := make([]string, 0, len(s.Indexes))
	for _, idx := range s.Indexes {
		names = append(names, idx.IndexName())
	}
	return names
}

// Documents builds the events to insert, with created_at and updated_at both
// set to now truncated to the millisecond precision BSON dates keep.
func (s *Set) Documents(now time.Time) []models.Event {
	stamp := now.UTC().Truncate(time.Millisecond)
	events := make([]models.Event, 0, len(s.Events))
	for _, f := range s.Events {
		events = append(events, models.Event{
			Title:       f.Title,
			Description: f.Description,
			Date:        f.Date,
			Location:    f.Location,
			Organizer:   f.Organizer,
			Capacity:    f.Capacity,
			CreatedAt:   stamp,
			UpdatedAt:   stamp,
		})
	}
	return events
}

// Matches reports whether a stored event carries the fixture's literal values.
func (f EventFixture) Matches(e models.Event) bool {
	return e.Title == f.Title &&
		e.Description == f.Description &&
		e.Date == f.Date &&
		e.Location == f.Location &&
		e.Organizer == f.Organizer &&
		e.Capacity == f.Capacity
}
