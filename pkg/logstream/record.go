package logstream

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Log levels as emitted by the platform. Anything unclassified is INFO.
// WARNING is the alternate spelling some loggers produce; both are kept
// verbatim on the record so viewers can style them alike.
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarn    = "WARN"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Record is one decoded log line, ready for display.
type Record struct {
	// Key is locally unique and stable for the record's lifetime, suitable
	// as a list identity. It is derived from the record timestamp with a
	// randomized tiebreaker, since server timestamps are not unique at
	// sub-millisecond resolution.
	Key string

	// Display is the formatted text, possibly multi-line when an exception
	// trace is attached.
	Display string

	// Level is the record's level as sent by the server, INFO when absent.
	Level string
}

// wireEntry is the structured payload the platform's logger emits.
type wireEntry struct {
	TS     int64  `json:"ts"` // milliseconds since epoch
	Level  string `json:"level"`
	Logger string `json:"logger"`
	Msg    string `json:"msg"`
	Exc    string `json:"exc"`
}

// DecodeRecord transforms one raw event payload into a Record. Structured
// payloads get a local-time stamp, a padded upper-case level, an optional
// [logger] tag and any exception text on a following line. A payload that is
// not the structured form passes through verbatim as INFO: the server writes
// plain text before its logging is configured, and dropping a real event is
// never acceptable.
func DecodeRecord(raw string) Record {
	// Only JSON objects are candidates for the structured form. Bare JSON
	// values like null or a quoted string would otherwise unmarshal without
	// error and render as an empty structured line.
	var entry wireEntry
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") || json.Unmarshal([]byte(raw), &entry) != nil {
		return Record{
			Key:     newRecordKey(time.Now()),
			Display: raw,
			Level:   LevelInfo,
		}
	}

	level := entry.Level
	if level == "" {
		level = LevelInfo
	}

	at := time.Now()
	if entry.TS > 0 {
		at = time.UnixMilli(entry.TS)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-7s  ", at.Format("15:04:05"), strings.ToUpper(level))
	if entry.Logger != "" {
		fmt.Fprintf(&b, "[%s] ", entry.Logger)
	}
	b.WriteString(entry.Msg)
	if entry.Exc != "" {
		b.WriteByte('\n')
		b.WriteString(entry.Exc)
	}

	return Record{
		Key:     newRecordKey(at),
		Display: b.String(),
		Level:   level,
	}
}
