// Package feature parses Gherkin feature files and replays them as an
// ordered stream of events.
package feature

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"

	"github.com/alexbrand/apidocs/internal/apidoc"
)

// Extension is the file suffix of Gherkin feature files.
const Extension = ".feature"

// ErrNoFeatures is returned when a directory holds no feature files.
var ErrNoFeatures = errors.New("no feature files found")

// Listener receives the events of a feature stream in order:
// FeatureStart, Comment, Tag..., then per scenario ScenarioStart, Step...,
// ScenarioEnd, then FeatureEnd. Done follows the last feature.
type Listener interface {
	FeatureStart(name string) error
	Comment(text string) error
	Tag(name string) error
	ScenarioStart(title string) error
	Step(step apidoc.Step) error
	ScenarioEnd() error
	FeatureEnd() error
	Done() error
}

// ParseError reports a feature file that could not be parsed or replayed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Discover returns the feature files below dir, sorted by path.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFeatures, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Parse reads a Gherkin document from r.
func Parse(r io.Reader, uri string) (*messages.GherkinDocument, error) {
	doc, err := gherkin.ParseGherkinDocument(r, uuid.NewString)
	if err != nil {
		return nil, err
	}
	doc.Uri = uri
	return doc, nil
}

// ParseFile reads the Gherkin document at path.
func ParseFile(path string) (*messages.GherkinDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Stream parses every path and replays it into l, then calls l.Done.
// The first error aborts the stream.
func Stream(paths []string, l Listener) error {
	for _, path := range paths {
		doc, err := ParseFile(path)
		if err != nil {
			return err
		}
		if err := Replay(doc, l); err != nil {
			return &ParseError{Path: path, Err: err}
		}
	}
	return l.Done()
}
