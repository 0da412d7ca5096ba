// Package render writes the HTML documentation for a report.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexbrand/apidocs/internal/apidoc"
)

// Default asset locations and document title.
const (
	DefaultTitle         = "API Documentation"
	DefaultStylesheetURL = "https://maxcdn.bootstrapcdn.com/bootstrap/3.2.0/css/bootstrap.min.css"
	DefaultThemeURL      = "https://maxcdn.bootstrapcdn.com/bootstrap/3.2.0/css/bootstrap-theme.min.css"
	DefaultJQueryURL     = "https://code.jquery.com/jquery-2.1.1.min.js"
	DefaultScriptURL     = "https://maxcdn.bootstrapcdn.com/bootstrap/3.2.0/js/bootstrap.min.js"
)

//go:embed templates/docs.html.tmpl
var templates embed.FS

var docsTemplate = template.Must(
	template.New("docs.html.tmpl").Funcs(template.FuncMap{
		"statusClass": panelClass,
		"prettyJSON":  prettyJSON,
		"lines":       lines,
	}).ParseFS(templates, "templates/docs.html.tmpl"),
)

// Options control the generated document.
type Options struct {
	Title         string
	StylesheetURL string
	ThemeURL      string
	JQueryURL     string
	ScriptURL     string
	// LiveReload is an event-stream URL; when set the page reloads on
	// every message.
	LiveReload string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.StylesheetURL == "" {
		o.StylesheetURL = DefaultStylesheetURL
	}
	if o.ThemeURL == "" {
		o.ThemeURL = DefaultThemeURL
	}
	if o.JQueryURL == "" {
		o.JQueryURL = DefaultJQueryURL
	}
	if o.ScriptURL == "" {
		o.ScriptURL = DefaultScriptURL
	}
	return o
}

type page struct {
	Options
	Report *apidoc.Report
}

// Render writes the HTML document for report to w.
func Render(w io.Writer, report *apidoc.Report, opts Options) error {
	var buf bytes.Buffer
	if err := docsTemplate.Execute(&buf, page{Options: opts.withDefaults(), Report: report}); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// WriteFile renders report into the file at path, creating parent
// directories as needed.
func WriteFile(path string, report *apidoc.Report, opts Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, report, opts); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func panelClass(code int) string {
	if class := apidoc.StatusClass(code); class != "" {
		return class
	}
	return "default"
}

// prettyJSON indents v without HTML escaping; the template escapes it.
func prettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
