package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeResult parses the oracle's raw textual output into a validated
// ClassificationResult. A reply that cannot be parsed, or that carries a
// category outside the legal set, is an ErrOracleContract failure.
func DecodeResult(responseText string) (*ClassificationResult, error) {
	var result ClassificationResult
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		// Try to extract JSON from the text response
		extracted, ok := extractJSON(responseText)
		if !ok {
			return nil, fmt.Errorf("%w: no JSON object in oracle reply: %v", ErrOracleContract, err)
		}
		if err := json.Unmarshal([]byte(extracted), &result); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOracleContract, err)
		}
	}

	if !result.Category.Valid() {
		return nil, fmt.Errorf("%w: category %q is not a legal value", ErrOracleContract, result.Category)
	}
	// Only the category is strictly validated; other omitted fields stay as
	// explicit empty values rather than being fabricated.
	// The oracle occasionally emits a negative estimate; a saved amount can't be one
	if result.CO2SavedKg < 0 {
		result.CO2SavedKg = 0
	}

	return &result, nil
}

// extractJSON pulls the outermost JSON object out of a reply that wrapped it
// in prose or a markdown fence
func extractJSON(text string) (string, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	jsonStart := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			jsonStart = i
			break
		}
	}

	jsonEnd := -1
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}

	if jsonStart < 0 || jsonEnd <= jsonStart {
		return "", false
	}
	return text[jsonStart:jsonEnd], true
}
