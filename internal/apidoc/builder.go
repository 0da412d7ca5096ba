package apidoc

import (
	"fmt"
	"regexp"
	"strings"
)

var commentMarker = regexp.MustCompile(`#\s*`)

// Builder aggregates scenario events into Endpoints. It holds at most one
// Endpoint and one Example under construction; finished objects are
// appended to their parent and left untouched afterwards.
type Builder struct {
	groups     *GroupRegistry
	classifier Classifier

	endpoint  *Endpoint
	example   *Example
	endpoints []*Endpoint
}

// NewBuilder creates a Builder resolving tags through groups. A nil
// registry gets a fresh one.
func NewBuilder(groups *GroupRegistry) *Builder {
	if groups == nil {
		groups = NewGroupRegistry()
	}
	return &Builder{groups: groups}
}

// FeatureStart begins a new Endpoint from a "VERB PATH" feature name.
func (b *Builder) FeatureStart(name string) error {
	fields := strings.Fields(name)
	if len(fields) != 2 {
		return fmt.Errorf("%w: %q is not \"VERB PATH\"", ErrMalformedHeader, name)
	}
	b.endpoint = NewEndpoint(fields[0], fields[1])
	b.example = nil
	return nil
}

// Comment sets the endpoint description, stripping comment markers.
func (b *Builder) Comment(text string) error {
	if b.endpoint == nil {
		return fmt.Errorf("%w: comment %q", ErrNoFeature, text)
	}
	b.endpoint.Description = strings.TrimSpace(commentMarker.ReplaceAllString(text, ""))
	return nil
}

// Tag assigns the endpoint to the tag's group.
func (b *Builder) Tag(name string) error {
	if b.endpoint == nil {
		return fmt.Errorf("%w: tag %q", ErrNoFeature, name)
	}
	b.endpoint.Tag = name
	b.endpoint.Group = b.groups.ForTag(name)
	return nil
}

// ScenarioStart begins a new Example and resets keyword continuation.
func (b *Builder) ScenarioStart(title string) error {
	if b.endpoint == nil {
		return fmt.Errorf("%w: scenario %q", ErrNoFeature, title)
	}
	b.example = NewExample(title)
	b.classifier.Reset()
	return nil
}

// Step classifies a step and applies it to the current Example and Endpoint.
func (b *Builder) Step(step Step) error {
	if b.example == nil {
		return fmt.Errorf("%w: step %q", ErrNoFeature, step.Text)
	}
	d, err := b.classifier.Classify(step)
	if err != nil {
		return fmt.Errorf("%s: %w", b.endpoint.Name(), err)
	}
	b.apply(d)
	return nil
}

func (b *Builder) apply(d Directive) {
	switch d.Kind {
	case KindPrerequisite:
		b.example.Prerequisites = append(b.example.Prerequisites, d.Prerequisite)
	case KindParameters:
		for _, p := range d.Parameters {
			b.example.Parameters = append(b.example.Parameters, p)
			b.endpoint.Parameters = append(b.endpoint.Parameters, Parameter{Type: p.Type, Name: p.Name})
		}
	case KindStatusCode:
		b.example.Code = d.Code
	case KindContentType:
		b.example.ContentType = d.ContentType
	case KindJSON:
		for _, a := range d.Assignments {
			if obj, ok := a.Value.(map[string]any); ok && a.Path == "" {
				for k, v := range obj {
					b.example.JSONResponse[k] = v
				}
				continue
			}
			Merge(b.example.JSONResponse, a.Path, a.Value)
		}
	}
}

// ScenarioEnd appends the current Example to the Endpoint.
func (b *Builder) ScenarioEnd() error {
	if b.example == nil {
		return fmt.Errorf("%w: scenario end", ErrNoFeature)
	}
	b.endpoint.Examples = append(b.endpoint.Examples, b.example)
	b.example = nil
	return nil
}

// FeatureEnd deduplicates the endpoint parameters by name and appends the
// Endpoint to the collection.
func (b *Builder) FeatureEnd() error {
	if b.endpoint == nil {
		return fmt.Errorf("%w: feature end", ErrNoFeature)
	}
	if b.endpoint.Group == nil {
		b.endpoint.Group = b.groups.ForTag(UngroupedKey)
	}
	b.endpoint.Parameters = dedupParameters(b.endpoint.Parameters)
	b.endpoints = append(b.endpoints, b.endpoint)
	b.endpoint = nil
	return nil
}

// Done marks the end of the event stream.
func (b *Builder) Done() error {
	if b.endpoint != nil {
		return fmt.Errorf("stream ended inside feature %s", b.endpoint.Name())
	}
	return nil
}

// Endpoints returns the finished endpoints in the order their features ended.
func (b *Builder) Endpoints() []*Endpoint {
	return b.endpoints
}
