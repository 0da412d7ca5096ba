package feature

import (
	"fmt"
	"strings"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/alexbrand/apidocs/internal/apidoc"
)

// Replay walks a parsed document and delivers its events to l. Comments
// above the Feature line become a single comment event. Background steps
// are replayed at the start of every scenario, and each Examples row of a
// Scenario Outline becomes its own scenario.
func Replay(doc *messages.GherkinDocument, l Listener) error {
	f := doc.Feature
	if f == nil {
		return nil
	}

	if err := l.FeatureStart(f.Name); err != nil {
		return err
	}
	if comment := leadingComment(doc); comment != "" {
		if err := l.Comment(comment); err != nil {
			return err
		}
	}
	for _, tag := range f.Tags {
		if err := l.Tag(tag.Name); err != nil {
			return err
		}
	}

	var background []*messages.Step
	for _, child := range f.Children {
		switch {
		case child.Background != nil:
			background = child.Background.Steps
		case child.Scenario != nil:
			if err := replayScenario(child.Scenario, background, l); err != nil {
				return err
			}
		case child.Rule != nil:
			if err := replayRule(child.Rule, background, l); err != nil {
				return err
			}
		}
	}

	return l.FeatureEnd()
}

func replayRule(rule *messages.Rule, background []*messages.Step, l Listener) error {
	steps := background
	for _, child := range rule.Children {
		switch {
		case child.Background != nil:
			steps = append(append([]*messages.Step{}, background...), child.Background.Steps...)
		case child.Scenario != nil:
			if err := replayScenario(child.Scenario, steps, l); err != nil {
				return err
			}
		}
	}
	return nil
}

func replayScenario(sc *messages.Scenario, background []*messages.Step, l Listener) error {
	if len(sc.Examples) == 0 {
		return emitScenario(sc.Name, append(append([]*messages.Step{}, background...), sc.Steps...), nil, l)
	}

	for _, examples := range sc.Examples {
		if examples.TableHeader == nil {
			continue
		}
		header := cells(examples.TableHeader)
		for _, row := range examples.TableBody {
			values := cells(row)
			vars := make(map[string]string, len(header))
			for i, name := range header {
				if i < len(values) {
					vars[name] = values[i]
				}
			}
			title := fmt.Sprintf("%s (%s)", sc.Name, strings.Join(values, ", "))
			steps := append(append([]*messages.Step{}, background...), sc.Steps...)
			if err := emitScenario(title, steps, vars, l); err != nil {
				return err
			}
		}
	}
	return nil
}

func emitScenario(title string, steps []*messages.Step, vars map[string]string, l Listener) error {
	if err := l.ScenarioStart(title); err != nil {
		return err
	}
	for _, s := range steps {
		if err := l.Step(convertStep(s, vars)); err != nil {
			return err
		}
	}
	return l.ScenarioEnd()
}

// convertStep copies a Gherkin step, substituting outline placeholders.
func convertStep(s *messages.Step, vars map[string]string) apidoc.Step {
	step := apidoc.Step{
		Keyword: strings.TrimSpace(s.Keyword),
		Text:    substitute(s.Text, vars),
	}
	if s.DataTable != nil {
		for _, row := range s.DataTable.Rows {
			values := cells(row)
			for i := range values {
				values[i] = substitute(values[i], vars)
			}
			step.Table = append(step.Table, values)
		}
	}
	if s.DocString != nil {
		step.DocString = substitute(s.DocString.Content, vars)
	}
	return step
}

func substitute(s string, vars map[string]string) string {
	for name, value := range vars {
		s = strings.ReplaceAll(s, "<"+name+">", value)
	}
	return s
}

func cells(row *messages.TableRow) []string {
	out := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		out = append(out, c.Value)
	}
	return out
}

// leadingComment joins the comment lines that precede the Feature keyword.
func leadingComment(doc *messages.GherkinDocument) string {
	var lines []string
	for _, c := range doc.Comments {
		if c.Location != nil && doc.Feature.Location != nil && c.Location.Line >= doc.Feature.Location.Line {
			continue
		}
		lines = append(lines, strings.TrimSpace(c.Text))
	}
	return strings.Join(lines, "\n")
}
