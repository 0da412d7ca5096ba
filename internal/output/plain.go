package output

import (
	"fmt"
	"io"
	"time"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/history"
)

// PlainFormatter outputs data in plain text format, suitable for scripting.
type PlainFormatter struct{}

// FormatReport outputs one tab-separated line per endpoint.
func (f *PlainFormatter) FormatReport(w io.Writer, report *apidoc.Report) error {
	for _, s := range report.Sections {
		for _, e := range s.Endpoints {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.Group.Key, e.Verb, e.Path, len(e.Examples))
		}
	}
	return nil
}

// FormatEndpoint outputs an endpoint line followed by one line per example.
func (f *PlainFormatter) FormatEndpoint(w io.Writer, e *apidoc.Endpoint) error {
	fmt.Fprintf(w, "%s\t%s\t%s\n", e.Verb, e.Path, groupName(e))
	for _, ex := range e.Examples {
		fmt.Fprintf(w, "%d\t%s\t%s\n", ex.Code, ex.ContentType, ex.Name)
	}
	return nil
}

// FormatRuns outputs one line per run.
func (f *PlainFormatter) FormatRuns(w io.Writer, runs []history.Run) error {
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\n", r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.Endpoints)
	}
	return nil
}

// FormatDiff outputs one "+" or "-" line per changed endpoint.
func (f *PlainFormatter) FormatDiff(w io.Writer, diff *history.Diff) error {
	for _, name := range diff.Added {
		fmt.Fprintf(w, "+\t%s\n", name)
	}
	for _, name := range diff.Removed {
		fmt.Fprintf(w, "-\t%s\n", name)
	}
	return nil
}

// FormatError outputs an error in plain format.
func (f *PlainFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}

// FormatConfig outputs configuration as key=value lines.
func (f *PlainFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "version=%d\n", cfg.Version)
	fmt.Fprintf(w, "features=%s\n", cfg.Features)
	fmt.Fprintf(w, "output=%s\n", cfg.Output)
	fmt.Fprintf(w, "title=%s\n", cfg.Title)
	fmt.Fprintf(w, "api_version=%s\n", cfg.APIVersion)
	fmt.Fprintf(w, "history.path=%s\n", cfg.History.Path)
	fmt.Fprintf(w, "serve.addr=%s\n", cfg.Serve.Addr)
	fmt.Fprintf(w, "serve.debounce=%s\n", cfg.Serve.Debounce)
	return nil
}
