package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// SpecMap holds the structured echo of a product's descriptive attributes.
// It is always present on a stored record, defaulting to an empty mapping.
type SpecMap map[string]string

// UnmarshalBSONValue accepts a document, a serialized JSON string (legacy
// records) or null, so old documents decode without failing the request.
func (s *SpecMap) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*s = SpecMap{}
		return nil
	case bsontype.EmbeddedDocument:
		var values map[string]string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		if values == nil {
			values = map[string]string{}
		}
		*s = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}

		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			*s = SpecMap{}
			return nil
		}

		var values map[string]string
		if err := json.Unmarshal([]byte(trimmed), &values); err != nil {
			// legacy free-text value, nothing structured to recover
			*s = SpecMap{}
			return nil
		}
		*s = values
		return nil
	default:
		return fmt.Errorf("cannot decode %s into SpecMap", t)
	}
}

// MarshalBSONValue always stores the mapping as a document, keeping new
// writes consistent even when legacy records used a string value.
func (s SpecMap) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s == nil {
		return bson.MarshalValue(map[string]string{})
	}
	return bson.MarshalValue(map[string]string(s))
}
