package apidoc

import (
	"encoding/json"
	"fmt"
)

// ParseValue decodes a scalar written in step text. The raw string is
// wrapped as {"key": raw} so bare tokens like true, 42 and null become
// native values while quoted JSON strings and inline objects stay valid.
func ParseValue(raw string) (any, error) {
	var wrapper struct {
		Key any `json:"key"`
	}
	if err := json.Unmarshal([]byte(`{"key":`+raw+`}`), &wrapper); err != nil {
		return nil, fmt.Errorf("%w: value %q: %v", ErrInvalidJSON, raw, err)
	}
	return wrapper.Key, nil
}

// ParseDocument decodes a JSON doc string attached to a step.
func ParseDocument(content string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}
