package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/history"
)

func testEndpoint() *apidoc.Endpoint {
	e := apidoc.NewEndpoint("GET", "/users/:id")
	e.Description = "Returns a single user.\nRequires authentication."
	e.Tag = "@user_management"
	e.Group = apidoc.NewGroup("@user_management")
	e.Parameters = []apidoc.Parameter{{Type: "integer", Name: "id"}}

	ex := apidoc.NewExample("Existing user")
	ex.Prerequisites = []string{`a user "bob" exists`}
	ex.Parameters = []apidoc.Parameter{{Type: "integer", Name: "id", Value: "1"}}
	ex.Code = 200
	ex.ContentType = "application/json"
	ex.JSONResponse = map[string]any{"name": "Bob"}
	e.Examples = []*apidoc.Example{ex}
	return e
}

func testReport(t *testing.T) *apidoc.Report {
	t.Helper()
	create := apidoc.NewEndpoint("POST", "/users")
	create.Group = apidoc.NewGroup("@user_management")
	ping := apidoc.NewEndpoint("GET", "/ping")
	ping.Group = apidoc.NewGroup(apidoc.UngroupedKey)

	report, err := apidoc.NewReport([]*apidoc.Endpoint{create, testEndpoint(), ping})
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}
	return report
}

func testRuns() []history.Run {
	return []history.Run{
		{ID: "run-2", CreatedAt: time.Date(2025, 1, 18, 14, 30, 0, 0, time.UTC), Endpoints: 3},
		{ID: "run-1", CreatedAt: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), Endpoints: 2},
	}
}

func testDiff() *history.Diff {
	runs := testRuns()
	return &history.Diff{
		From:    &runs[1],
		To:      &runs[0],
		Added:   []string{"GET /ping", "POST /users"},
		Removed: []string{"DELETE /users/:id"},
	}
}

func TestFormatIsValid(t *testing.T) {
	tests := []struct {
		format Format
		valid  bool
	}{
		{FormatTable, true},
		{FormatJSON, true},
		{FormatPlain, true},
		{FormatNameOnly, true},
		{Format("id-only"), false},
		{Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.IsValid(); got != tt.valid {
				t.Errorf("Format(%q).IsValid() = %v, want %v", tt.format, got, tt.valid)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatTable, "table"},
		{FormatJSON, "json"},
		{FormatPlain, "plain"},
		{FormatNameOnly, "name-only"},
		{Format("unknown"), "table"}, // defaults to table
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var got string
			switch New(tt.format).(type) {
			case *TableFormatter:
				got = "table"
			case *JSONFormatter:
				got = "json"
			case *PlainFormatter:
				got = "plain"
			case *NameOnlyFormatter:
				got = "name-only"
			}
			if got != tt.expected {
				t.Errorf("New(%q) returned %s formatter, want %s", tt.format, got, tt.expected)
			}
		})
	}
}

func TestTableFormatterFormatReport(t *testing.T) {
	f := &TableFormatter{}
	var buf bytes.Buffer

	if err := f.FormatReport(&buf, testReport(t)); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"GROUP", "VERB", "PATH", "User management", "/users/:id", "Returns a single user."} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q", want)
		}
	}
	if strings.Contains(output, "Requires authentication") {
		t.Error("Output should only show the first description line")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "/ping") {
		t.Errorf("Ungrouped endpoints should sort first, got %q", lines[1])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short", "Lists users.", "Lists users."},
		{"exact width", strings.Repeat("a", 40), strings.Repeat("a", 40)},
		{"ascii", strings.Repeat("a", 45), strings.Repeat("a", 37) + "..."},
		{"multibyte", strings.Repeat("é", 45), strings.Repeat("é", 37) + "..."},
		{"multibyte fits", strings.Repeat("日", 40), strings.Repeat("日", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, 40)
			if got != tt.want {
				t.Errorf("truncate() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate() returned invalid UTF-8 %q", got)
			}
		})
	}
}

func TestTableFormatterMultibyteDescription(t *testing.T) {
	e := apidoc.NewEndpoint("GET", "/cafés")
	e.Group = apidoc.NewGroup(apidoc.UngroupedKey)
	e.Description = strings.Repeat("Liste des cafés à proximité, ", 3)
	report, err := apidoc.NewReport([]*apidoc.Endpoint{e})
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).FormatReport(&buf, report); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}
	if !utf8.Valid(buf.Bytes()) {
		t.Errorf("Output should be valid UTF-8, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "...") {
		t.Error("Long description should be truncated")
	}
}

func TestTableFormatterEmptyReport(t *testing.T) {
	f := &TableFormatter{}
	var buf bytes.Buffer

	if err := f.FormatReport(&buf, &apidoc.Report{}); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No endpoints found") {
		t.Error("Empty report should show 'No endpoints found'")
	}
}

func TestTableFormatterFormatEndpoint(t *testing.T) {
	f := &TableFormatter{}
	var buf bytes.Buffer

	if err := f.FormatEndpoint(&buf, testEndpoint()); err != nil {
		t.Fatalf("FormatEndpoint() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"GET /users/:id",
		"Group:     User management",
		"## Parameters",
		"integer",
		"### Existing user (200)",
		`given a user "bob" exists`,
		"id = 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q", want)
		}
	}
}

func TestTableFormatterFormatDiff(t *testing.T) {
	f := &TableFormatter{}

	var buf bytes.Buffer
	if err := f.FormatDiff(&buf, testDiff()); err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "+ GET /ping") || !strings.Contains(output, "- DELETE /users/:id") {
		t.Errorf("unexpected diff output %q", output)
	}

	buf.Reset()
	runs := testRuns()
	if err := f.FormatDiff(&buf, &history.Diff{To: &runs[0]}); err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Only one run recorded") {
		t.Errorf("unexpected single-run output %q", buf.String())
	}
}

func TestTableFormatterFormatRuns(t *testing.T) {
	f := &TableFormatter{}
	var buf bytes.Buffer

	if err := f.FormatRuns(&buf, nil); err != nil {
		t.Fatalf("FormatRuns() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No runs recorded") {
		t.Error("Empty runs should show 'No runs recorded'")
	}

	buf.Reset()
	if err := f.FormatRuns(&buf, testRuns()); err != nil {
		t.Fatalf("FormatRuns() error = %v", err)
	}
	if !strings.Contains(buf.String(), "run-2") || !strings.Contains(buf.String(), "ENDPOINTS") {
		t.Errorf("unexpected runs output %q", buf.String())
	}
}

func TestJSONFormatterFormatReport(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer

	if err := f.FormatReport(&buf, testReport(t)); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	groups, ok := result["groups"].([]any)
	if !ok {
		t.Fatal("Result should have groups array")
	}
	if len(groups) != 2 {
		t.Errorf("len(groups) = %d, want 2", len(groups))
	}
	if result["count"].(float64) != 3 {
		t.Errorf("count = %v, want 3", result["count"])
	}
}

func TestJSONFormatterFormatEndpoint(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer

	if err := f.FormatEndpoint(&buf, testEndpoint()); err != nil {
		t.Fatalf("FormatEndpoint() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if result["verb"] != "GET" {
		t.Errorf("verb = %v, want GET", result["verb"])
	}
	examples := result["examples"].([]any)
	response := examples[0].(map[string]any)["json_response"].(map[string]any)
	if response["name"] != "Bob" {
		t.Errorf("json_response.name = %v, want Bob", response["name"])
	}
}

func TestJSONFormatterFormatError(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer

	if err := f.FormatError(&buf, "NOT_FOUND", "Endpoint GET /nope not found", nil); err != nil {
		t.Fatalf("FormatError() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	errObj, ok := result["error"].(map[string]any)
	if !ok {
		t.Fatal("Result should have error object")
	}
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("code = %v, want NOT_FOUND", errObj["code"])
	}
	if _, ok := errObj["details"].(map[string]any); !ok {
		t.Error("details should default to an empty object")
	}
}

func TestJSONFormatterFormatRunsEmpty(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer

	if err := f.FormatRuns(&buf, nil); err != nil {
		t.Fatalf("FormatRuns() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"runs": []`) {
		t.Errorf("expected empty runs array, got %q", buf.String())
	}
}

func TestJSONFormatterFormatConfig(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer
	cfg := &config.Config{Version: 1, Features: "features", Output: "docs.html", APIVersion: "1.0.0"}

	if err := f.FormatConfig(&buf, cfg); err != nil {
		t.Fatalf("FormatConfig() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if result["api_version"] != "1.0.0" {
		t.Errorf("api_version = %v, want 1.0.0", result["api_version"])
	}
}

func TestPlainFormatterFormatReport(t *testing.T) {
	f := &PlainFormatter{}
	var buf bytes.Buffer

	if err := f.FormatReport(&buf, testReport(t)); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "user_management\tGET\t/users/:id\t1" {
		t.Errorf("Second line = %q", lines[1])
	}
}

func TestPlainFormatterFormatDiff(t *testing.T) {
	f := &PlainFormatter{}
	var buf bytes.Buffer

	if err := f.FormatDiff(&buf, testDiff()); err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	want := "+\tGET /ping\n+\tPOST /users\n-\tDELETE /users/:id\n"
	if buf.String() != want {
		t.Errorf("Output = %q, want %q", buf.String(), want)
	}
}

func TestNameOnlyFormatterFormatReport(t *testing.T) {
	f := &NameOnlyFormatter{}
	var buf bytes.Buffer

	if err := f.FormatReport(&buf, testReport(t)); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"GET /ping", "GET /users/:id", "POST /users"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestNameOnlyFormatterFormatRuns(t *testing.T) {
	f := &NameOnlyFormatter{}
	var buf bytes.Buffer

	if err := f.FormatRuns(&buf, testRuns()); err != nil {
		t.Fatalf("FormatRuns() error = %v", err)
	}
	if buf.String() != "run-2\nrun-1\n" {
		t.Errorf("Output = %q", buf.String())
	}
}
