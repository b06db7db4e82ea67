package randutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleWithoutReplacement(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}

	t.Run("no duplicates", func(t *testing.T) {
		got := SampleWithoutReplacement(NewLockedRand(1), pool, 3)
		require.Len(t, got, 3)

		seen := map[string]bool{}
		for _, s := range got {
			require.False(t, seen[s])
			seen[s] = true
		}
	})

	t.Run("short pool returns everything", func(t *testing.T) {
		got := SampleWithoutReplacement(NewLockedRand(1), pool[:2], 5)
		require.ElementsMatch(t, []string{"a", "b"}, got)
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		first := SampleWithoutReplacement(NewLockedRand(42), pool, 3)
		second := SampleWithoutReplacement(NewLockedRand(42), pool, 3)
		require.Equal(t, first, second)
	})

	t.Run("input pool is untouched", func(t *testing.T) {
		SampleWithoutReplacement(NewLockedRand(7), pool, 5)
		require.Equal(t, []string{"a", "b", "c", "d", "e"}, pool)
	})
}
