package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAt_SortsByTime(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := NewAt(base)
	later := NewAt(base.Add(time.Second))
	assert.Less(t, earlier, later)
}

func TestNewAt_EncodesTimestamp(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	u, err := ulid.Parse(NewAt(base))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(base), u.Time())
}
