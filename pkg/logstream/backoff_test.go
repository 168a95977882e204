package logstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffProgression(t *testing.T) {
	t.Parallel()

	b := newBackoff(2*time.Second, 30*time.Second)

	want := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // capped
		30 * time.Second, // stays capped
	}
	for i, expected := range want {
		require.Equal(t, expected, b.Next(), "delay %d", i+1)
	}
}

func TestBackoffResetsToFloor(t *testing.T) {
	t.Parallel()

	b := newBackoff(2*time.Second, 30*time.Second)
	for i := 0; i < 4; i++ {
		b.Next()
	}

	b.Reset()
	require.Equal(t, 2*time.Second, b.Next(), "a successful connection resets the next delay to the floor")
}
