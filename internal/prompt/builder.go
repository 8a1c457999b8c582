// Package prompt builds the deterministic instruction payload sent to the
// classification oracle. Building is pure: identical inputs always yield
// byte-identical instruction text.
package prompt

import (
	"strings"

	"github.com/mikey/ecosort/internal/core"
)

// Instruction is the built request for the oracle. Image bytes travel as a
// separate typed part, never inlined into the text.
type Instruction struct {
	Text      string
	ImageData []byte
	MimeType  string
}

const rulePreamble = `You are an expert waste classification AI.
RULES:
- Categories: recyclable, compostable, hazardous, landfill, reusable.
- Item state: %STATE%.
- If DIRTY paper/cardboard -> prefer compostable or landfill.
- If DIRTY plastic -> landfill.
- Hazardous (batteries, tech, chemicals) always stay hazardous.
- Provide a short eco_fact and a wishcycling_alert if applicable.

Return valid JSON only:
{
  "category": "string",
  "reason": "string",
  "eco_fact": "string",
  "contamination_warning": "string",
  "wishcycling_alert": "string",
  "disclaimer": "string",
  "co2_saved_kg": number,
  "item_detected": "string"
}`

// Build produces the instruction payload for a subject and contamination flag
func Build(subject core.Subject, dirty bool) Instruction {
	state := "CLEAN"
	if dirty {
		state = "DIRTY/FOOD-SOILED"
	}
	preamble := strings.ReplaceAll(rulePreamble, "%STATE%", state)

	if subject.IsImage() {
		return Instruction{
			Text:      preamble + "\nIdentify and classify the item in this image.",
			ImageData: subject.ImageData,
			MimeType:  subject.MimeType,
		}
	}

	return Instruction{
		Text: preamble + "\n\nClassify this item: " + subject.Text,
	}
}
