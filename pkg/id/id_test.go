package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAtSorts(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)
	prev := NewAt(at)
	for i := 0; i < 100; i++ {
		next := NewAt(at)
		assert.Less(t, prev, next)
		prev = next
	}

	later := NewAt(at.Add(time.Second))
	assert.Less(t, prev, later)
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 7, 14, 9, 30, 0, 123_000_000, time.UTC)
	got, err := Time(NewAt(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()
	assert.Len(t, New(), 26)
}
