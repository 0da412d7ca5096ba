// Package openapi exports documented endpoints as an OpenAPI 3 document.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/alexbrand/apidocs/internal/apidoc"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

const defaultContentType = "application/json"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Info describes the generated API.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Build converts endpoints into an OpenAPI document. Endpoints are expected
// in render order, as returned by apidoc.Report.Endpoints.
func Build(endpoints []*apidoc.Endpoint, info Info) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(),
	}

	seenTags := make(map[string]bool)
	for _, e := range endpoints {
		path, pathParams := templatePath(e.Path)
		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}
		if item.GetOperation(e.Verb) != nil {
			return nil, fmt.Errorf("duplicate endpoint %s", e.Name())
		}

		op := operation(e, pathParams)
		if e.Group != nil {
			op.Tags = []string{e.Group.Name}
			if !seenTags[e.Group.Name] {
				seenTags[e.Group.Name] = true
				doc.Tags = append(doc.Tags, &openapi3.Tag{Name: e.Group.Name})
			}
		}
		item.SetOperation(e.Verb, op)
	}

	return doc, nil
}

// Validate checks doc against the OpenAPI specification.
func Validate(ctx context.Context, doc *openapi3.T) error {
	return doc.Validate(ctx)
}

// templatePath rewrites ":id" segments as "{id}" and returns the names of
// the path parameters in order.
func templatePath(path string) (string, []string) {
	segments := strings.Split(path, "/")
	var params []string
	for i, s := range segments {
		switch {
		case strings.HasPrefix(s, ":") && len(s) > 1:
			params = append(params, s[1:])
			segments[i] = "{" + s[1:] + "}"
		case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") && len(s) > 2:
			params = append(params, s[1:len(s)-1])
		}
	}
	return strings.Join(segments, "/"), params
}

func operation(e *apidoc.Endpoint, pathParams []string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID(e)
	op.Summary = e.Name()
	op.Description = e.Description

	declared := make(map[string]apidoc.Parameter, len(e.Parameters))
	for _, p := range e.Parameters {
		declared[p.Name] = p
	}

	inPath := make(map[string]bool, len(pathParams))
	for _, name := range pathParams {
		inPath[name] = true
		p := openapi3.NewPathParameter(name).WithSchema(schemaFor(declared[name].Type))
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
	}

	var body *openapi3.Schema
	for _, p := range e.Parameters {
		if inPath[p.Name] {
			continue
		}
		switch location(p.Type, e.Verb) {
		case openapi3.ParameterInHeader:
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
				Value: openapi3.NewHeaderParameter(p.Name).WithSchema(schemaFor(p.Type)),
			})
		case openapi3.ParameterInQuery:
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
				Value: openapi3.NewQueryParameter(p.Name).WithSchema(schemaFor(p.Type)),
			})
		default:
			if body == nil {
				body = openapi3.NewObjectSchema()
			}
			body.WithProperty(p.Name, schemaFor(p.Type))
		}
	}
	if body != nil {
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithJSONSchema(body)}
	}

	op.Responses = responses(e.Examples)
	return op
}

// location picks where a non-path parameter travels. Explicit locations in
// the type column win; otherwise GET and DELETE use the query string and
// the other verbs a JSON body.
func location(typ, verb string) string {
	switch strings.ToLower(typ) {
	case "header":
		return openapi3.ParameterInHeader
	case "query":
		return openapi3.ParameterInQuery
	case "body":
		return "body"
	}
	if verb == http.MethodGet || verb == http.MethodDelete {
		return openapi3.ParameterInQuery
	}
	return "body"
}

func schemaFor(typ string) *openapi3.Schema {
	switch strings.ToLower(typ) {
	case "integer", "int", "int64", "int32":
		return openapi3.NewIntegerSchema()
	case "number", "float", "double", "decimal":
		return openapi3.NewFloat64Schema()
	case "boolean", "bool":
		return openapi3.NewBoolSchema()
	case "array", "list":
		return openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	case "object", "hash", "map":
		return openapi3.NewObjectSchema()
	default:
		return openapi3.NewStringSchema()
	}
}

func responses(examples []*apidoc.Example) *openapi3.Responses {
	byCode := make(map[int][]*apidoc.Example)
	var codes []int
	for _, ex := range examples {
		if !ex.HasCode() {
			continue
		}
		if _, ok := byCode[ex.Code]; !ok {
			codes = append(codes, ex.Code)
		}
		byCode[ex.Code] = append(byCode[ex.Code], ex)
	}
	if len(codes) == 0 {
		return openapi3.NewResponses()
	}
	sort.Ints(codes)

	opts := make([]openapi3.NewResponsesOption, 0, len(codes))
	for _, code := range codes {
		opts = append(opts, openapi3.WithStatus(code, &openapi3.ResponseRef{Value: response(code, byCode[code])}))
	}
	return openapi3.NewResponses(opts...)
}

func response(code int, examples []*apidoc.Example) *openapi3.Response {
	description := http.StatusText(code)
	if description == "" {
		description = fmt.Sprintf("Status %d", code)
	}
	resp := openapi3.NewResponse().WithDescription(description)

	content := openapi3.Content{}
	names := make(map[string]int)
	for _, ex := range examples {
		ct := ex.ContentType
		if ct == "" {
			ct = defaultContentType
		}
		mt, ok := content[ct]
		if !ok {
			mt = openapi3.NewMediaType()
			content[ct] = mt
		}
		if len(ex.JSONResponse) == 0 {
			continue
		}
		if mt.Examples == nil {
			mt.Examples = openapi3.Examples{}
		}
		mt.Examples[exampleName(ex.Name, names)] = &openapi3.ExampleRef{
			Value: openapi3.NewExample(ex.JSONResponse),
		}
	}
	if len(content) > 0 {
		resp.Content = content
	}
	return resp
}

// exampleName slugifies name, suffixing repeats with a counter.
func exampleName(name string, seen map[string]int) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "example"
	}
	seen[slug]++
	if n := seen[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}

func operationID(e *apidoc.Endpoint) string {
	path := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(e.Path), "-"), "-")
	if path == "" {
		return strings.ToLower(e.Verb)
	}
	return strings.ToLower(e.Verb) + "-" + path
}

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalYAML renders doc as block-style YAML, keeping key order.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("converting to YAML: %w", err)
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
