package core

import (
	"fmt"
	"strings"
)

// Category is a disposal category assigned to a classified waste item
type Category string

const (
	CategoryRecyclable  Category = "recyclable"
	CategoryCompostable Category = "compostable"
	CategoryHazardous   Category = "hazardous"
	CategoryLandfill    Category = "landfill"
	CategoryReusable    Category = "reusable"
)

// Categories lists every legal disposal category
var Categories = []Category{
	CategoryRecyclable,
	CategoryCompostable,
	CategoryHazardous,
	CategoryLandfill,
	CategoryReusable,
}

// Valid reports whether the category is one of the five legal values
func (c Category) Valid() bool {
	switch c {
	case CategoryRecyclable, CategoryCompostable, CategoryHazardous, CategoryLandfill, CategoryReusable:
		return true
	}
	return false
}

// Subject is the thing being classified: either a typed item description
// or an image payload. Exactly one variant is populated.
type Subject struct {
	Text      string
	ImageData []byte
	MimeType  string
}

// TextSubject creates a subject from a typed item description
func TextSubject(item string) Subject {
	return Subject{Text: item}
}

// ImageSubject creates a subject from an image payload and its media type
func ImageSubject(data []byte, mimeType string) Subject {
	return Subject{ImageData: data, MimeType: mimeType}
}

// IsImage reports whether the subject carries an image payload
func (s Subject) IsImage() bool {
	return len(s.ImageData) > 0
}

// Validate checks that exactly one variant is populated
func (s Subject) Validate() error {
	hasText := strings.TrimSpace(s.Text) != ""
	hasImage := len(s.ImageData) > 0

	switch {
	case hasText && hasImage:
		return fmt.Errorf("%w: subject has both text and image", ErrInvalidInput)
	case hasImage && s.MimeType == "":
		return fmt.Errorf("%w: image subject missing media type", ErrInvalidInput)
	case !hasText && !hasImage:
		return fmt.Errorf("%w: empty subject", ErrInvalidInput)
	}
	return nil
}

// ClassificationResult is the canonical output of a classification.
// Field names match the wire format the oracle is instructed to emit.
type ClassificationResult struct {
	Category             Category `json:"category"`
	ItemDetected         string   `json:"item_detected"`
	Reason               string   `json:"reason"`
	EcoFact              string   `json:"eco_fact"`
	ContaminationWarning string   `json:"contamination_warning"`
	WishcyclingAlert     string   `json:"wishcycling_alert"`
	Disclaimer           string   `json:"disclaimer"`
	CO2SavedKg           float64  `json:"co2_saved_kg"`
}
