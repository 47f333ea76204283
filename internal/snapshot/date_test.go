package snapshot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gametracker/internal/snapshot"
)

func TestDateInReferenceTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// 02:00 UTC on March 11 is still March 10 in New York. The server's host
	// timezone must never leak into the snapshot date.
	instant := time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", snapshot.DateIn(instant, ny))
	assert.Equal(t, "2025-03-11", snapshot.DateIn(instant, time.UTC))
}

func TestPrevDate(t *testing.T) {
	prev, err := snapshot.PrevDate("2025-03-10")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-09", prev)

	// Month and year boundaries.
	prev, err = snapshot.PrevDate("2025-03-01")
	assert.NoError(t, err)
	assert.Equal(t, "2025-02-28", prev)

	prev, err = snapshot.PrevDate("2025-01-01")
	assert.NoError(t, err)
	assert.Equal(t, "2024-12-31", prev)

	_, err = snapshot.PrevDate("not-a-date")
	assert.Error(t, err)
}
