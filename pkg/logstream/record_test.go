package logstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRecordStructured(t *testing.T) {
	t.Parallel()

	raw := `{"ts":1700000000000,"level":"error","logger":"db","msg":"conn lost","exc":"trace..."}`
	rec := DecodeRecord(raw)

	require.Equal(t, "error", rec.Level, "level keeps the server's casing")
	require.Contains(t, rec.Display, "ERROR  ", "display carries the padded upper-case level")
	require.Contains(t, rec.Display, "[db] ")
	require.Contains(t, rec.Display, "conn lost")

	lines := strings.Split(rec.Display, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "trace...", lines[1], "exception text lands on its own line")
}

func TestDecodeRecordLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	rec := DecodeRecord(`{"ts":1700000000000,"msg":"started"}`)
	require.Equal(t, LevelInfo, rec.Level)
	require.Contains(t, rec.Display, "INFO   ")
	require.Contains(t, rec.Display, "started")
}

func TestDecodeRecordLoggerTagOptional(t *testing.T) {
	t.Parallel()

	rec := DecodeRecord(`{"ts":1700000000000,"level":"warn","msg":"slow query"}`)
	require.NotContains(t, rec.Display, "[")
	require.Contains(t, rec.Display, "WARN   ")
}

func TestDecodeRecordFallback(t *testing.T) {
	t.Parallel()

	// Plain text shows up before the server's logging is configured. It must
	// pass through verbatim, never be dropped.
	rec := DecodeRecord("server starting")
	require.Equal(t, LevelInfo, rec.Level)
	require.Equal(t, "server starting", rec.Display)
}

func TestDecodeRecordNonObjectJSONFallsBack(t *testing.T) {
	t.Parallel()

	// Bare JSON values decode into the wire struct without error, so the
	// structured path must be reserved for objects.
	for _, raw := range []string{"null", `"just a string"`, "[1,2,3]"} {
		rec := DecodeRecord(raw)
		require.Equal(t, LevelInfo, rec.Level)
		require.Equal(t, raw, rec.Display, "payload %q must pass through verbatim", raw)
	}
}

func TestDecodeRecordKeysAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		rec := DecodeRecord(`{"ts":1700000000000,"msg":"same instant"}`)
		require.False(t, seen[rec.Key], "key %q repeated", rec.Key)
		seen[rec.Key] = true
	}
}
