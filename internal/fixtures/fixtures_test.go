package fixtures

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesSeedData(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "event_service", set.Database)
	assert.Equal(t, "events", set.Collection)
	assert.Equal(t, []string{
		"title_text_description_text_location_text",
		"date_1",
		"created_at_-1",
	}, set.IndexNames())

	require.Len(t, set.Events, 2)
	assert.Equal(t, EventFixture{
		Title:       "Tech Conference 2024",
		Description: "Annual technology conference featuring latest innovations",
		Date:        "2024-07-15",
		Location:    "Convention Center, San Francisco",
		Organizer:   "Tech Events Inc.",
		Capacity:    500,
	}, set.Events[0])
	assert.Equal(t, EventFixture{
		Title:       "Music Festival",
		Description: "Three-day outdoor music festival with top artists",
		Date:        "2024-08-20",
		Location:    "Central Park, New York",
		Organizer:   "Music Productions",
		Capacity:    10000,
	}, set.Events[1])
}

func TestDocuments_StampsCreationTime(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 30, 45, 123456789, time.FixedZone("CEST", 2*60*60))
	docs := set.Documents(now)

	require.Len(t, docs, 2)
	want := time.Date(2024, 6, 1, 10, 30, 45, 123000000, time.UTC)
	for _, doc := range docs {
		assert.True(t, doc.ID.IsZero())
		assert.Equal(t, want, doc.CreatedAt)
		assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	}
	assert.Equal(t, "2024-07-15", docs[0].Date)
	assert.Equal(t, 500, docs[0].Capacity)
	assert.True(t, set.Events[1].Matches(docs[1]))
	assert.False(t, set.Events[0].Matches(docs[1]))
}

func TestIndexName_ExplicitNameWins(t *testing.T) {
	idx := IndexSpec{Name: "by_date", Keys: []IndexKey{{Field: "date", Order: OrderAsc}}}
	assert.Equal(t, "by_date", idx.IndexName())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name: "unknown order",
			input: `database: db
collection: events
indexes:
  - keys:
      - {field: date, order: sideways}
events:
  - {title: x}
`,
			wantErr: ErrInvalidIndexOrder,
		},
		{
			name: "no events",
			input: `database: db
collection: events
`,
			wantErr: ErrNoEvents,
		},
		{
			name:    "missing database",
			input:   "collection: events\n",
			wantMsg: "database is required",
		},
		{
			name: "unknown field",
			input: `database: db
collection: events
colection: typo
`,
			wantMsg: "failed to parse fixtures",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`database: staging_events
collection: events
events:
  - title: Meetup
    date: "2025-01-10"
    capacity: 40
`), 0o644))

	set, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "staging_events", set.Database)
	assert.Empty(t, set.Indexes)
	require.Len(t, set.Events, 1)
	assert.Equal(t, 40, set.Events[0].Capacity)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
