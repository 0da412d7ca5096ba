package output

import (
	"encoding/json"
	"io"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/history"
)

// JSONFormatter outputs data in JSON format.
type JSONFormatter struct{}

// FormatReport outputs the grouped endpoints as JSON.
func (f *JSONFormatter) FormatReport(w io.Writer, report *apidoc.Report) error {
	groups := make([]map[string]any, 0, len(report.Sections))
	count := 0
	for _, s := range report.Sections {
		groups = append(groups, map[string]any{
			"key":       s.Group.Key,
			"name":      s.Group.Name,
			"endpoints": s.Endpoints,
		})
		count += len(s.Endpoints)
	}
	return f.writeJSON(w, map[string]any{
		"groups": groups,
		"count":  count,
	})
}

// FormatEndpoint outputs a single endpoint as JSON.
func (f *JSONFormatter) FormatEndpoint(w io.Writer, e *apidoc.Endpoint) error {
	return f.writeJSON(w, e)
}

// FormatRuns outputs recorded runs as JSON.
func (f *JSONFormatter) FormatRuns(w io.Writer, runs []history.Run) error {
	if runs == nil {
		runs = []history.Run{}
	}
	return f.writeJSON(w, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// FormatDiff outputs the diff between runs as JSON.
func (f *JSONFormatter) FormatDiff(w io.Writer, diff *history.Diff) error {
	return f.writeJSON(w, diff)
}

// FormatError outputs an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return f.writeJSON(w, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FormatConfig outputs configuration as JSON.
func (f *JSONFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	return f.writeJSON(w, cfg)
}

// writeJSON encodes the value as indented JSON and writes it to w.
func (f *JSONFormatter) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
