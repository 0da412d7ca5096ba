package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/history"
)

const timeLayout = "2006-01-02 15:04"

// TableFormatter outputs data in a human-readable table format.
type TableFormatter struct{}

// FormatReport outputs every endpoint in table format.
func (f *TableFormatter) FormatReport(w io.Writer, report *apidoc.Report) error {
	if len(report.Sections) == 0 {
		fmt.Fprintln(w, "No endpoints found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tVERB\tPATH\tEXAMPLES\tDESCRIPTION")

	for _, s := range report.Sections {
		for _, e := range s.Endpoints {
			description := truncate(firstLine(e.Description), 40)
			if description == "" {
				description = "—"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				s.Group.Name,
				e.Verb,
				e.Path,
				len(e.Examples),
				description,
			)
		}
	}

	return tw.Flush()
}

// FormatEndpoint outputs a single endpoint in detailed format.
func (f *TableFormatter) FormatEndpoint(w io.Writer, e *apidoc.Endpoint) error {
	fmt.Fprintln(w, e.Name())
	fmt.Fprintln(w, strings.Repeat("━", 40))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Group:     %s\n", groupName(e))
	if e.Tag != "" {
		fmt.Fprintf(w, "Tag:       %s\n", e.Tag)
	}

	if e.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Description")
		fmt.Fprintln(w)
		fmt.Fprintln(w, e.Description)
	}

	if len(e.Parameters) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Parameters")
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tNAME")
		for _, p := range e.Parameters {
			fmt.Fprintf(tw, "%s\t%s\n", p.Type, p.Name)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(e.Examples) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Examples")
		for _, ex := range e.Examples {
			fmt.Fprintln(w)
			code := "—"
			if ex.HasCode() {
				code = fmt.Sprint(ex.Code)
			}
			fmt.Fprintf(w, "### %s (%s)\n", ex.Name, code)
			for _, p := range ex.Prerequisites {
				fmt.Fprintf(w, "  given %s\n", p)
			}
			for _, p := range ex.Parameters {
				fmt.Fprintf(w, "  %s = %s\n", p.Name, p.Value)
			}
		}
	}

	return nil
}

// FormatRuns outputs recorded runs in table format.
func (f *TableFormatter) FormatRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tENDPOINTS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.ID, r.CreatedAt.Local().Format(timeLayout), r.Endpoints)
	}
	return tw.Flush()
}

// FormatDiff outputs endpoint changes between runs.
func (f *TableFormatter) FormatDiff(w io.Writer, diff *history.Diff) error {
	if diff.From == nil {
		fmt.Fprintf(w, "Only one run recorded (%s).\n", diff.To.ID)
		return nil
	}
	if len(diff.Added) == 0 && len(diff.Removed) == 0 {
		fmt.Fprintln(w, "No endpoint changes.")
		return nil
	}

	fmt.Fprintf(w, "Changes %s → %s:\n", diff.From.ID, diff.To.ID)
	for _, name := range diff.Added {
		fmt.Fprintf(w, "  + %s\n", name)
	}
	for _, name := range diff.Removed {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	return nil
}

// FormatError outputs an error message.
func (f *TableFormatter) FormatError(w io.Writer, code string, message string, details map[string]any) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}

// FormatConfig outputs configuration.
func (f *TableFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "Configuration:\n")
	fmt.Fprintf(w, "  Version:     %d\n", cfg.Version)
	fmt.Fprintf(w, "  Features:    %s\n", cfg.Features)
	fmt.Fprintf(w, "  Output:      %s\n", cfg.Output)
	fmt.Fprintf(w, "  Title:       %s\n", cfg.Title)
	fmt.Fprintf(w, "  API Version: %s\n", cfg.APIVersion)
	if cfg.History.Path != "" {
		fmt.Fprintf(w, "  History:     %s\n", cfg.History.Path)
	} else {
		fmt.Fprintf(w, "  History:     disabled\n")
	}
	fmt.Fprintf(w, "  Serve:       %s (debounce %s)\n", cfg.Serve.Addr, cfg.Serve.Debounce)
	return nil
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
