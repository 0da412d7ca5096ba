// Package output provides formatters for displaying documentation data.
package output

import (
	"io"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/history"
)

// Format represents an output format type.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatPlain    Format = "plain"
	FormatNameOnly Format = "name-only"
)

// ValidFormats returns all valid format values.
func ValidFormats() []Format {
	return []Format{FormatTable, FormatJSON, FormatPlain, FormatNameOnly}
}

// IsValid checks if the format is a valid output format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatPlain, FormatNameOnly:
		return true
	default:
		return false
	}
}

// Formatter defines the interface for outputting documentation data in various formats.
type Formatter interface {
	// FormatReport outputs every endpoint of a report, grouped.
	FormatReport(w io.Writer, report *apidoc.Report) error

	// FormatEndpoint outputs a single endpoint with its examples.
	FormatEndpoint(w io.Writer, e *apidoc.Endpoint) error

	// FormatRuns outputs recorded generation runs.
	FormatRuns(w io.Writer, runs []history.Run) error

	// FormatDiff outputs the endpoint changes between two runs.
	FormatDiff(w io.Writer, diff *history.Diff) error

	// FormatError outputs an error.
	FormatError(w io.Writer, code string, message string, details map[string]any) error

	// FormatConfig outputs configuration.
	FormatConfig(w io.Writer, cfg *config.Config) error
}

// New creates a formatter for the specified format.
func New(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatPlain:
		return &PlainFormatter{}
	case FormatNameOnly:
		return &NameOnlyFormatter{}
	case FormatTable:
		fallthrough
	default:
		return &TableFormatter{}
	}
}

// groupName returns the display name of the endpoint's group.
func groupName(e *apidoc.Endpoint) string {
	if e.Group == nil {
		return apidoc.NewGroup(apidoc.UngroupedKey).Name
	}
	return e.Group.Name
}
