package support

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Lookup parses document as JSON and returns the value at path. Path
// segments are separated by dots; numeric segments index arrays, as in
// "groups.0.endpoints.1.path".
func Lookup(document, path string) (any, error) {
	var data any
	if err := json.Unmarshal([]byte(document), &data); err != nil {
		return nil, fmt.Errorf("output is not valid JSON: %w", err)
	}
	if path == "" {
		return data, nil
	}

	current := data
	for _, key := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok {
				return nil, fmt.Errorf("no key %q in %s", key, path)
			}
			current = v
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("no index %q in %s", key, path)
			}
			current = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q in %s", key, path)
		}
	}
	return current, nil
}

// Format renders a JSON value the way it is written in feature files:
// strings bare, everything else as compact JSON.
func Format(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
