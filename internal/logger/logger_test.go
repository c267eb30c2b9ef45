package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesConsoleAndJSONFile(t *testing.T) {
	var console bytes.Buffer
	dir := t.TempDir()

	l, err := NewLogger(Options{Name: "seed-test", Dir: dir, Console: &console})
	require.NoError(t, err)

	l.Info("database", "connected")
	l.LogDatabase("CREATE", "events", "collection ready")
	l.Close()

	assert.Contains(t, console.String(), "connected")
	assert.Contains(t, console.String(), "[CREATE] events - collection ready")
	assert.True(t, strings.HasPrefix(l.FileName(), dir))

	f, err := os.Open(l.FileName())
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "DATABASE", entries[0].Category)
	assert.Equal(t, "connected", entries[0].Message)
	assert.Equal(t, "logger_test.go", entries[0].File)
}

func TestLogger_DebugRequiresVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer

	q, err := NewLogger(Options{Console: &quiet})
	require.NoError(t, err)
	q.Debug("seed", "hidden")
	q.Warn("seed", "shown")

	v, err := NewLogger(Options{Console: &loud, Verbose: true})
	require.NoError(t, err)
	v.Debug("seed", "visible")

	assert.NotContains(t, quiet.String(), "hidden")
	assert.Contains(t, quiet.String(), "shown")
	assert.Contains(t, loud.String(), "visible")
	assert.Empty(t, q.FileName())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("seed", "nothing to see")
	l.Close()
}
