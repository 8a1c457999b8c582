package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
	"category": "compostable",
	"item_detected": "pizza box",
	"reason": "greasy cardboard",
	"eco_fact": "Grease ruins cardboard recycling.",
	"contamination_warning": "",
	"wishcycling_alert": "",
	"disclaimer": "",
	"co2_saved_kg": 0.05
}`

func TestDecodeResultValid(t *testing.T) {
	result, err := DecodeResult(validReply)
	require.NoError(t, err)

	assert.Equal(t, CategoryCompostable, result.Category)
	assert.Equal(t, "pizza box", result.ItemDetected)
	assert.InDelta(t, 0.05, result.CO2SavedKg, 1e-9)
}

func TestDecodeResultMarkdownFence(t *testing.T) {
	result, err := DecodeResult("```json\n" + validReply + "\n```")
	require.NoError(t, err)
	assert.Equal(t, CategoryCompostable, result.Category)
}

func TestDecodeResultProseWrapped(t *testing.T) {
	result, err := DecodeResult("Sure, here is the classification:\n" + validReply + "\nHope that helps!")
	require.NoError(t, err)
	assert.Equal(t, CategoryCompostable, result.Category)
}

func TestDecodeResultNonJSON(t *testing.T) {
	_, err := DecodeResult("I cannot classify that item.")
	require.ErrorIs(t, err, ErrOracleContract)
}

func TestDecodeResultIllegalCategory(t *testing.T) {
	_, err := DecodeResult(`{"category": "incinerate", "reason": "burn it", "eco_fact": "x", "co2_saved_kg": 0}`)
	require.ErrorIs(t, err, ErrOracleContract)
}

func TestDecodeResultMinimalReply(t *testing.T) {
	result, err := DecodeResult(`{"category": "landfill", "co2_saved_kg": 0.1}`)
	require.NoError(t, err)

	assert.Equal(t, CategoryLandfill, result.Category)
	assert.Empty(t, result.Reason)
	assert.Empty(t, result.EcoFact)
	assert.InDelta(t, 0.1, result.CO2SavedKg, 1e-9)
}

func TestDecodeResultMissingCategory(t *testing.T) {
	_, err := DecodeResult(`{"reason": "no idea", "eco_fact": "x"}`)
	require.ErrorIs(t, err, ErrOracleContract)
}

func TestDecodeResultClampsNegativeCO2(t *testing.T) {
	result, err := DecodeResult(`{"category": "landfill", "reason": "mixed material", "eco_fact": "x", "co2_saved_kg": -0.4}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CO2SavedKg)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("incinerate").Valid())
	assert.False(t, Category("").Valid())
	assert.False(t, Category("Recyclable").Valid())
}
