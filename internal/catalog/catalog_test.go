package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByID(t *testing.T) {
	a, ok := ByID("browser")
	require.True(t, ok)
	assert.Equal(t, "browser", a.ID)
	assert.Equal(t, CategorySolo, a.Category)
	assert.Equal(t, int64(1), a.BasePoints)
	assert.Equal(t, int64(2), a.VIPPoints)

	_, ok = ByID("no_such_activity")
	assert.False(t, ok)
}

func TestAllOrderAndUniqueness(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	assert.Equal(t, Count(), len(all))

	// Category order: every solo activity precedes every pair activity.
	lastSolo, firstPair := -1, len(all)
	seen := make(map[string]bool, len(all))
	for i, a := range all {
		require.Falsef(t, seen[a.ID], "duplicate activity id %q", a.ID)
		seen[a.ID] = true

		switch a.Category {
		case CategorySolo:
			lastSolo = i
		case CategoryPair:
			if i < firstPair {
				firstPair = i
			}
		default:
			t.Fatalf("unexpected category %q", a.Category)
		}
	}
	assert.Less(t, lastSolo, firstPair)
}

func TestVIPPointsAtLeastBase(t *testing.T) {
	for _, a := range All() {
		assert.GreaterOrEqualf(t, a.VIPPoints, a.BasePoints, "activity %s", a.ID)
	}
}

func TestSearch(t *testing.T) {
	t.Run("matches id case-insensitively", func(t *testing.T) {
		results := Search("BROWSER", 25)
		require.Len(t, results, 1)
		assert.Equal(t, "browser", results[0].ID)
	})

	t.Run("matches name substring", func(t *testing.T) {
		results := Search("теннис", 25)
		require.NotEmpty(t, results)
		for _, a := range results {
			assert.True(t,
				strings.Contains(strings.ToLower(a.Name), "теннис") ||
					strings.Contains(a.ID, "теннис"))
		}
	})

	t.Run("empty query returns catalog order capped at limit", func(t *testing.T) {
		results := Search("", 5)
		require.Len(t, results, 5)
		assert.Equal(t, All()[:5], results)
	})

	t.Run("respects limit", func(t *testing.T) {
		assert.LessOrEqual(t, len(Search("а", 3)), 3)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Search("zzzzzz", 25))
	})

	t.Run("results preserve catalog order", func(t *testing.T) {
		results := Search("pet", 25)
		require.Len(t, results, 2)
		assert.Equal(t, "pet_ball", results[0].ID)
		assert.Equal(t, "pet_commands", results[1].ID)
	})
}
