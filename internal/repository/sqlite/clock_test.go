package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockNeverGoesBackwards(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	readings := []time.Time{
		base,
		base.Add(-time.Hour),
		base,
		base.Add(time.Second),
	}
	i := 0
	clk := &clock{source: func() time.Time {
		r := readings[i]
		i++
		return r
	}}

	var issued []time.Time
	for range readings {
		issued = append(issued, clk.now())
	}

	assert.Equal(t, base, issued[0])
	for j := 1; j < len(issued); j++ {
		assert.True(t, issued[j].After(issued[j-1]), "reading %d", j)
	}
	assert.Equal(t, base.Add(time.Second), issued[3])
	assert.Equal(t, time.UTC, issued[1].Location())
}

func TestClockTimestampsSurviveStorageFormat(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := &clock{source: func() time.Time { return base }}

	first, second := clk.now(), clk.now()
	a, err := parseTime(formatTime(first))
	assert.NoError(t, err)
	b, err := parseTime(formatTime(second))
	assert.NoError(t, err)
	assert.True(t, b.After(a))
	assert.Less(t, formatTime(first), formatTime(second))
}
