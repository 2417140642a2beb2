package storage

import (
	"encoding/json"
	"fmt"
)

// EncodeList serializes a string sequence into a list literal for a flat
// tabular cell. DecodeList inverts it exactly: element values and order
// are preserved. A nil slice encodes as the empty list.
func EncodeList(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// DecodeList parses a list-literal cell back into a string sequence.
// The empty cell decodes to the empty sequence.
func DecodeList(cell string) ([]string, error) {
	if cell == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(cell), &values); err != nil {
		return nil, fmt.Errorf("decode list cell %q: %w", cell, err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
