package model

import (
	"encoding/json"
)

// Decode copies a raw document map into a typed value via a JSON
// round-trip, matching how documents travel on the wire.
func Decode(doc map[string]any, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// ToDoc flattens a typed value into a raw document map.
func ToDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
