package spec

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/alexbrand/apidocs/spec/steps"
)

// TestMain builds the apidocs binary once for the whole suite unless
// APIDOCS_BIN points at one already.
func TestMain(m *testing.M) {
	if bin := os.Getenv("APIDOCS_BIN"); bin != "" {
		steps.BinaryPath = bin
		os.Exit(m.Run())
	}

	dir, err := os.MkdirTemp("", "apidocs-bin-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bin := filepath.Join(dir, "apidocs")
	build := exec.Command("go", "build", "-o", bin, "../cmd/apidocs")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build apidocs: %v\n", err)
		os.RemoveAll(dir)
		os.Exit(1)
	}
	steps.BinaryPath = bin

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Output:      colors.Colored(os.Stdout),
		Format:      "pretty",
		Paths:       []string{"features"},
		Randomize:   0,
		Concurrency: 1,
	}

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	steps.InitializeCommonSteps(ctx)
}
