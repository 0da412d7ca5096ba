package apidoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Step keywords understood by the classifier.
const (
	KeywordGiven = "Given"
	KeywordWhen  = "When"
	KeywordThen  = "Then"
)

// continuations inherit the previous explicit keyword.
var continuations = map[string]bool{
	"And": true,
	"But": true,
	"*":   true,
}

// Step is one scenario step as delivered by the event stream.
type Step struct {
	Keyword string
	Text    string
	// Table holds the attached data table, header row included.
	Table [][]string
	// DocString holds the attached doc string, if any.
	DocString string
}

// Kind identifies what a step contributes to the document model.
type Kind int

const (
	KindIgnored Kind = iota
	KindPrerequisite
	KindParameters
	KindStatusCode
	KindContentType
	KindJSON
)

// Assignment is a value to merge into the JSON response tree at Path.
type Assignment struct {
	Path  string
	Value any
}

// Directive is the classification of a step plus its extracted payload.
type Directive struct {
	Kind    Kind
	Keyword string

	Prerequisite string
	Parameters   []Parameter
	Code         int
	ContentType  string
	Assignments  []Assignment
}

type thenRule struct {
	pattern *regexp.Regexp
	apply   func(m []string, step Step) (Directive, error)
}

// thenRules are tried in order; the first matching pattern wins.
var thenRules = []thenRule{
	{regexp.MustCompile(`the status code is (\d+)`), statusCode},
	{regexp.MustCompile(`Content-Type is (.*)$`), contentType},
	{regexp.MustCompile(`the JSON response at "(.*?)" should include( keys)*:`), jsonInclude},
	{regexp.MustCompile(`the JSON response at "(.*?)" should be ([^ ]*?)$`), jsonValue},
	{regexp.MustCompile(`the JSON response at "(.*?)" should be (variable )*"(.*?)"`), jsonLiteral},
}

// Classifier maps steps to directives, tracking the last explicit keyword
// so continuation steps inherit it.
type Classifier struct {
	prior string
}

// Reset forgets the previous keyword. Call it at the start of a scenario.
func (c *Classifier) Reset() {
	c.prior = ""
}

// Resolve returns the effective keyword for a raw step keyword.
func (c *Classifier) Resolve(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if continuations[keyword] && c.prior != "" {
		return c.prior
	}
	return keyword
}

// Classify resolves the step keyword and extracts what the step documents.
// Unrecognized steps yield KindIgnored with no error.
func (c *Classifier) Classify(step Step) (Directive, error) {
	keyword := c.Resolve(step.Keyword)

	var (
		d   Directive
		err error
	)
	switch keyword {
	case KeywordGiven:
		d = Directive{Kind: KindPrerequisite, Prerequisite: step.Text}
	case KeywordWhen:
		d = parameters(step)
	case KeywordThen:
		d, err = classifyThen(step)
	}
	if err != nil {
		return Directive{}, err
	}

	switch keyword {
	case KeywordGiven, KeywordWhen, KeywordThen:
		c.prior = keyword
	}
	d.Keyword = keyword
	return d, nil
}

func classifyThen(step Step) (Directive, error) {
	for _, rule := range thenRules {
		if m := rule.pattern.FindStringSubmatch(step.Text); m != nil {
			return rule.apply(m, step)
		}
	}
	return Directive{Kind: KindIgnored}, nil
}

// parameters reads (type, name, value) rows below the table header.
func parameters(step Step) Directive {
	if len(step.Table) == 0 {
		return Directive{Kind: KindIgnored}
	}
	params := make([]Parameter, 0, len(step.Table))
	for _, row := range step.Table[1:] {
		params = append(params, Parameter{
			Type:  cell(row, 0),
			Name:  cell(row, 1),
			Value: cell(row, 2),
		})
	}
	return Directive{Kind: KindParameters, Parameters: params}
}

func statusCode(m []string, _ Step) (Directive, error) {
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return Directive{}, fmt.Errorf("status code %q: %w", m[1], err)
	}
	return Directive{Kind: KindStatusCode, Code: code}, nil
}

func contentType(m []string, _ Step) (Directive, error) {
	return Directive{Kind: KindContentType, ContentType: strings.TrimSpace(m[1])}, nil
}

func jsonInclude(m []string, step Step) (Directive, error) {
	path := m[1]
	d := Directive{Kind: KindJSON}

	if len(step.Table) > 0 {
		for _, row := range step.Table[1:] {
			var value any
			if len(row) > 1 {
				v, err := ParseValue(row[1])
				if err != nil {
					return Directive{}, fmt.Errorf("%s: %w", step.Text, err)
				}
				value = v
			}
			d.Assignments = append(d.Assignments, Assignment{Path: joinPath(path, cell(row, 0)), Value: value})
		}
		return d, nil
	}

	value, err := ParseDocument(step.DocString)
	if err != nil {
		return Directive{}, fmt.Errorf("%s: %w", step.Text, err)
	}
	d.Assignments = append(d.Assignments, Assignment{Path: path, Value: value})
	return d, nil
}

func jsonValue(m []string, step Step) (Directive, error) {
	value, err := ParseValue(m[2])
	if err != nil {
		return Directive{}, fmt.Errorf("%s: %w", step.Text, err)
	}
	return Directive{Kind: KindJSON, Assignments: []Assignment{{Path: m[1], Value: value}}}, nil
}

func jsonLiteral(m []string, _ Step) (Directive, error) {
	return Directive{Kind: KindJSON, Assignments: []Assignment{{Path: m[1], Value: m[3]}}}, nil
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "/" + key
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
