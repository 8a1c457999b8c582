// Package history accumulates classification results for a single session
// and derives an impact score. The log is append-only, held in memory and
// discarded with the session; nothing here performs I/O.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikey/ecosort/internal/core"
)

const (
	// co2Multiplier converts cumulative kilograms of CO2 saved into score points
	co2Multiplier = 10
	// maxScore caps the displayed eco score
	maxScore = 100
)

// Entry is a classification result with its creation metadata. Entries are
// never mutated after creation.
type Entry struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Result    core.ClassificationResult `json:"result"`
}

// Summary holds the derived running totals for a session
type Summary struct {
	TotalItems    int                   `json:"total_items"`
	CO2SavedKg    float64               `json:"co2_saved_kg"`
	EcoScore      int                   `json:"eco_score"`
	CategoryCount map[core.Category]int `json:"category_count"`
}

// Log is an append-only sequence of entries owned by one session
type Log struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewLog creates an empty session log
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append records a result and returns the created entry
func (l *Log) Append(result core.ClassificationResult) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		ID:        uuid.NewString(),
		CreatedAt: l.now(),
		Result:    result,
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy of the recorded entries in append order
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Summary derives the running totals and the capped eco score
func (l *Log) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := Summary{CategoryCount: make(map[core.Category]int)}
	for _, e := range l.entries {
		summary.TotalItems++
		summary.CO2SavedKg += e.Result.CO2SavedKg
		summary.CategoryCount[e.Result.Category]++
	}
	summary.EcoScore = Score(summary.CO2SavedKg)
	return summary
}

// Score converts cumulative CO2 savings into the capped display score
func Score(co2SavedKg float64) int {
	score := int(co2SavedKg*co2Multiplier + 0.5)
	if score > maxScore {
		return maxScore
	}
	return score
}
