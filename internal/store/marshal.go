package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalDetail converts an event detail map to JSON TEXT.
// Keys are sorted by encoding/json and HTML escaping is disabled so the
// stored text is byte-stable across runs.
func marshalDetail(detail map[string]string) (string, error) {
	if len(detail) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(detail); err != nil {
		return "", fmt.Errorf("marshal detail: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalDetail parses JSON TEXT back into a detail map.
func unmarshalDetail(data string) (map[string]string, error) {
	detail := map[string]string{}
	if data == "" || data == "{}" {
		return detail, nil
	}
	if err := json.Unmarshal([]byte(data), &detail); err != nil {
		return nil, fmt.Errorf("unmarshal detail: %w", err)
	}
	return detail, nil
}
