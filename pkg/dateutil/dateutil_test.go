package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	at := time.Date(2023, 5, 17, 23, 59, 0, 0, time.UTC)
	require.Equal(t, "2023-05-17", Day(at))

	// The bucket is taken in UTC regardless of the wall-clock zone.
	zone := time.FixedZone("UTC+7", 7*3600)
	require.Equal(t, "2023-05-18", Day(time.Date(2023, 5, 17, 20, 0, 0, 0, zone).Add(4*time.Hour)))
}

func TestParseDay(t *testing.T) {
	parsed, err := ParseDay("2023-05-17")
	require.NoError(t, err)
	require.Equal(t, 2023, parsed.Year())

	_, err = ParseDay("17/05/2023")
	require.Error(t, err)
	require.False(t, IsDay("not-a-day"))
}
