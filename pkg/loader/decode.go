package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oakwood-commons/refx/pkg/reference"
)

// Decode parses a JSON dataset. The root must be an array of objects.
func Decode(data []byte) ([]reference.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("invalid JSON: empty input")
	}

	var root any
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	items, ok := root.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	return reference.FromMaps(items)
}
