package logstream

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(500)
	for i := 0; i < 501; i++ {
		buf.Append(Record{Key: strconv.Itoa(i)})
	}

	records := buf.Records()
	require.Len(t, records, 500)
	require.Equal(t, "1", records[0].Key, "the oldest record is evicted")
	require.Equal(t, "500", records[499].Key, "the newest record is retained")

	// Arrival order is preserved among retained records.
	for i, rec := range records {
		require.Equal(t, strconv.Itoa(i+1), rec.Key)
	}
}

func TestBufferDefaultCapacity(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		buf.Append(Record{Key: strconv.Itoa(i)})
	}
	require.Equal(t, DefaultCapacity, buf.Len())
}

func TestBufferClear(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(10)
	buf.Append(Record{Key: "a"})
	buf.Append(Record{Key: "b"})
	require.Equal(t, 2, buf.Len())

	buf.Clear()
	require.Equal(t, 0, buf.Len())
	require.Empty(t, buf.Records())

	// Still usable after Clear.
	buf.Append(Record{Key: "c"})
	require.Equal(t, 1, buf.Len())
}
