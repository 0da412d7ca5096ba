// Package generate runs the feature-to-documentation pipeline.
package generate

import (
	"bytes"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/feature"
	"github.com/alexbrand/apidocs/internal/openapi"
	"github.com/alexbrand/apidocs/internal/render"
)

// Result is the outcome of one pass over a features directory.
type Result struct {
	Files  []string
	Report *apidoc.Report
}

// Load discovers the feature files below dir and aggregates them into a
// Report. All files share one group registry.
func Load(dir string) (*Result, error) {
	files, err := feature.Discover(dir)
	if err != nil {
		return nil, err
	}

	b := apidoc.NewBuilder(nil)
	if err := feature.Stream(files, b); err != nil {
		return nil, err
	}

	report, err := apidoc.NewReport(b.Endpoints())
	if err != nil {
		return nil, err
	}
	return &Result{Files: files, Report: report}, nil
}

// Generate loads dir and writes the HTML document to output.
func Generate(dir, output string, opts render.Options) (*Result, error) {
	res, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if err := render.WriteFile(output, res.Report, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Endpoints returns the endpoints in render order.
func (r *Result) Endpoints() []*apidoc.Endpoint {
	return r.Report.Endpoints()
}

// HTML renders the document into memory.
func (r *Result) HTML(opts render.Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := render.Render(&buf, r.Report, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OpenAPI builds the OpenAPI document for the endpoints.
func (r *Result) OpenAPI(info openapi.Info) (*openapi3.T, error) {
	return openapi.Build(r.Endpoints(), info)
}
