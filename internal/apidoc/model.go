// Package apidoc builds API documentation models from Gherkin scenario events.
//
// A Builder consumes the callbacks produced by the feature package and
// aggregates them into Endpoints, each carrying its Examples, parameter
// signature and Group. NewReport turns the finished collection into the
// sorted view consumed by the HTML renderer.
package apidoc

import "fmt"

// Verbs lists the recognized HTTP verbs in render order.
var Verbs = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// Parameter is a request parameter declared in a When step table.
// Value is empty for endpoint-level signature parameters.
type Parameter struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Example is a single scenario illustrating a request and its response.
type Example struct {
	Name          string         `json:"name"`
	Prerequisites []string       `json:"prerequisites"`
	Parameters    []Parameter    `json:"parameters"`
	Code          int            `json:"code,omitempty"`
	ContentType   string         `json:"content_type,omitempty"`
	JSONResponse  map[string]any `json:"json_response"`
}

// NewExample returns an Example with empty collections.
func NewExample(name string) *Example {
	return &Example{
		Name:          name,
		Prerequisites: []string{},
		Parameters:    []Parameter{},
		JSONResponse:  map[string]any{},
	}
}

// HasCode reports whether a status code was asserted for the example.
func (e *Example) HasCode() bool {
	return e.Code != 0
}

// Endpoint documents one HTTP verb and path combination.
type Endpoint struct {
	Description string      `json:"description,omitempty"`
	Tag         string      `json:"tag,omitempty"`
	Group       *Group      `json:"group"`
	Verb        string      `json:"verb"`
	Path        string      `json:"path"`
	Examples    []*Example  `json:"examples"`
	Parameters  []Parameter `json:"parameters"`
}

// NewEndpoint returns an Endpoint with empty collections.
func NewEndpoint(verb, path string) *Endpoint {
	return &Endpoint{
		Verb:       verb,
		Path:       path,
		Examples:   []*Example{},
		Parameters: []Parameter{},
	}
}

// Name returns "{verb} {path}".
func (e *Endpoint) Name() string {
	return fmt.Sprintf("%s %s", e.Verb, e.Path)
}

// SortOrder returns the position of the endpoint's verb in Verbs.
func (e *Endpoint) SortOrder() (int, error) {
	for i, v := range Verbs {
		if v == e.Verb {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unable to look up verb for %s", ErrUnknownVerb, e.Name())
}

// dedupParameters keeps the first parameter seen for each name, preserving order.
func dedupParameters(params []Parameter) []Parameter {
	seen := make(map[string]struct{}, len(params))
	out := make([]Parameter, 0, len(params))
	for _, p := range params {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out
}
