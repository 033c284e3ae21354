package catalog

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"

	"backend/internal/models"
)

// ProductInput is a decoded create/update payload. The XxxSet flags
// distinguish an absent field from an explicit empty value so partial
// updates only touch what the client actually sent.
type ProductInput struct {
	Name    string
	NameSet bool

	// Price is kept raw so coercion happens in one place.
	Price    string
	PriceSet bool

	MainCategory      string
	MainCategorySet   bool
	SubCategory       string
	SubCategorySet    bool
	NestedCategory    string
	NestedCategorySet bool

	Composition     string
	CompositionSet  bool
	GSM             string
	GSMSet          bool
	Width           string
	WidthSet        bool
	Count           string
	CountSet        bool
	Construction    string
	ConstructionSet bool
	Weave           string
	WeaveSet        bool
	Finish          string
	FinishSet       bool

	Specifications SpecificationsInput

	InStock    bool
	InStockSet bool

	Image *ImageUpload
}

// ImageUpload carries one uploaded photo, fully read into memory so the
// size cap is enforced before anything is persisted.
type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// SpecificationsInput is the boundary sum type for the specifications
// field: clients send either a structured mapping or a serialized JSON
// text. Exactly one of Structured and Serialized is meaningful.
type SpecificationsInput struct {
	Structured models.SpecMap
	Serialized string
	Set        bool
}

// UnmarshalJSON accepts an object or a string value, so JSON bodies behave
// like form submissions.
func (in *SpecificationsInput) UnmarshalJSON(data []byte) error {
	in.Set = true

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var values models.SpecMap
		if err := json.Unmarshal(data, &values); err != nil {
			// recovered later by Resolve
			in.Serialized = trimmed
			return nil
		}
		in.Structured = values
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		in.Serialized = trimmed
		return nil
	}
	in.Serialized = text
	return nil
}

// Resolve returns the canonical mapping. A serialized form that does not
// decode is recovered locally: the failure is logged and an empty mapping
// is substituted so the surrounding operation continues.
func (in SpecificationsInput) Resolve() models.SpecMap {
	if in.Structured != nil {
		return in.Structured
	}

	raw := strings.TrimSpace(in.Serialized)
	if raw == "" {
		return models.SpecMap{}
	}

	var values models.SpecMap
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		log.Printf("specifications: malformed payload ignored: %v", err)
		return models.SpecMap{}
	}
	if values == nil {
		return models.SpecMap{}
	}
	return values
}

// CoercePrice turns raw input into a non-negative price. Absent, invalid
// and negative values all become 0 rather than an error; every deployment
// variant behaves this way, so the quirk is preserved.
func CoercePrice(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
