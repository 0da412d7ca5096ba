package output

import (
	"fmt"
	"io"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/history"
)

// NameOnlyFormatter outputs only names ("GET /users", run ids), one per line.
type NameOnlyFormatter struct{}

// FormatReport outputs endpoint names in render order.
func (f *NameOnlyFormatter) FormatReport(w io.Writer, report *apidoc.Report) error {
	for _, e := range report.Endpoints() {
		fmt.Fprintln(w, e.Name())
	}
	return nil
}

// FormatEndpoint outputs the endpoint name.
func (f *NameOnlyFormatter) FormatEndpoint(w io.Writer, e *apidoc.Endpoint) error {
	fmt.Fprintln(w, e.Name())
	return nil
}

// FormatRuns outputs run ids.
func (f *NameOnlyFormatter) FormatRuns(w io.Writer, runs []history.Run) error {
	for _, r := range runs {
		fmt.Fprintln(w, r.ID)
	}
	return nil
}

// FormatDiff outputs the names of added endpoints.
func (f *NameOnlyFormatter) FormatDiff(w io.Writer, diff *history.Diff) error {
	for _, name := range diff.Added {
		fmt.Fprintln(w, name)
	}
	return nil
}

// FormatError outputs an error message (errors are always shown).
func (f *NameOnlyFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}

// FormatConfig outputs the path of the features directory.
func (f *NameOnlyFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, cfg.Features)
	return nil
}
