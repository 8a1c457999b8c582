package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/ecosort/internal/core"
)

func result(category core.Category, co2 float64) core.ClassificationResult {
	return core.ClassificationResult{
		Category:   category,
		Reason:     "test",
		CO2SavedKg: co2,
	}
}

func TestSummary(t *testing.T) {
	log := NewLog()
	log.Append(result(core.CategoryRecyclable, 0.5))
	log.Append(result(core.CategoryCompostable, 1.2))
	log.Append(result(core.CategoryRecyclable, 3.0))

	summary := log.Summary()
	assert.Equal(t, 3, summary.TotalItems)
	assert.InDelta(t, 4.7, summary.CO2SavedKg, 1e-9)
	assert.Equal(t, 47, summary.EcoScore)
	assert.Equal(t, 2, summary.CategoryCount[core.CategoryRecyclable])
	assert.Equal(t, 1, summary.CategoryCount[core.CategoryCompostable])
}

func TestSummaryEmpty(t *testing.T) {
	summary := NewLog().Summary()
	assert.Zero(t, summary.TotalItems)
	assert.Zero(t, summary.EcoScore)
}

func TestScoreCap(t *testing.T) {
	assert.Equal(t, 100, Score(50))
	assert.Equal(t, 100, Score(10))
	assert.Equal(t, 99, Score(9.9))
	assert.Equal(t, 0, Score(0))
}

func TestEntriesAreImmutableCopies(t *testing.T) {
	log := NewLog()
	entry := log.Append(result(core.CategoryReusable, 1.0))

	require.NotEmpty(t, entry.ID)
	require.False(t, entry.CreatedAt.IsZero())

	entries := log.Entries()
	require.Len(t, entries, 1)
	entries[0].Result.CO2SavedKg = 99

	assert.InDelta(t, 1.0, log.Entries()[0].Result.CO2SavedKg, 1e-9)
}

func TestEntryIDsAreUnique(t *testing.T) {
	log := NewLog()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		entry := log.Append(result(core.CategoryLandfill, 0.1))
		assert.False(t, seen[entry.ID])
		seen[entry.ID] = true
	}
}
