package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/ecosort/internal/core"
)

func TestBuildIsDeterministic(t *testing.T) {
	subject := core.TextSubject("pizza box")

	first := Build(subject, true)
	second := Build(subject, true)

	require.Equal(t, first.Text, second.Text)
	require.Equal(t, first, second)
}

func TestBuildTextSubject(t *testing.T) {
	instr := Build(core.TextSubject("battery"), false)

	assert.Contains(t, instr.Text, "Classify this item: battery")
	assert.Contains(t, instr.Text, "Item state: CLEAN.")
	assert.Contains(t, instr.Text, "recyclable, compostable, hazardous, landfill, reusable")
	assert.Empty(t, instr.ImageData)
}

func TestBuildDirtyState(t *testing.T) {
	instr := Build(core.TextSubject("paper plate"), true)

	assert.Contains(t, instr.Text, "Item state: DIRTY/FOOD-SOILED.")
	assert.NotContains(t, instr.Text, "Item state: CLEAN.")
}

func TestBuildNamesEveryResultField(t *testing.T) {
	instr := Build(core.TextSubject("glass jar"), false)

	for _, field := range []string{
		"category", "reason", "eco_fact", "contamination_warning",
		"wishcycling_alert", "disclaimer", "co2_saved_kg", "item_detected",
	} {
		assert.Contains(t, instr.Text, `"`+field+`"`)
	}
}

func TestBuildImageSubject(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	instr := Build(core.ImageSubject(data, "image/jpeg"), false)

	assert.Contains(t, instr.Text, "Identify and classify the item in this image.")
	assert.Equal(t, data, instr.ImageData)
	assert.Equal(t, "image/jpeg", instr.MimeType)
	// The payload must never be inlined into the instruction text
	assert.False(t, strings.Contains(instr.Text, string(data)))
}
