// Package steps provides step definitions for the apidocs CLI Gherkin specs.
package steps

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cucumber/godog"

	"github.com/alexbrand/apidocs/spec/support"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	testEnvKey    contextKey = "testEnv"
	cliRunnerKey  contextKey = "cliRunner"
	lastResultKey contextKey = "lastResult"
)

// BinaryPath is the apidocs binary the scenarios run. An empty value
// resolves "apidocs" from PATH.
var BinaryPath string

func getTestEnv(ctx context.Context) *support.TestEnv {
	if env, ok := ctx.Value(testEnvKey).(*support.TestEnv); ok {
		return env
	}
	return nil
}

func getCLIRunner(ctx context.Context) *support.CLIRunner {
	if runner, ok := ctx.Value(cliRunnerKey).(*support.CLIRunner); ok {
		return runner
	}
	return nil
}

// getLastResult retrieves the last command result from context.
func getLastResult(ctx context.Context) (*support.CommandResult, error) {
	if result, ok := ctx.Value(lastResultKey).(*support.CommandResult); ok {
		return result, nil
	}
	return nil, fmt.Errorf("no command has been run")
}

// InitializeCommonSteps registers all common step definitions.
func InitializeCommonSteps(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		env, err := support.NewTestEnv()
		if err != nil {
			return ctx, fmt.Errorf("failed to create test environment: %w", err)
		}

		runner := support.NewCLIRunner(BinaryPath)
		runner.WorkDir = env.TempDir
		// Keep the user's own ~/.config/apidocs out of the scenario.
		runner.SetEnv("HOME", env.HomeDir)

		ctx = context.WithValue(ctx, testEnvKey, env)
		ctx = context.WithValue(ctx, cliRunnerKey, runner)
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if env := getTestEnv(ctx); env != nil {
			if cleanupErr := env.Cleanup(); cleanupErr != nil {
				fmt.Printf("Warning: cleanup failed: %v\n", cleanupErr)
			}
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a feature file "([^"]*)" with:$`, aFeatureFileWith)
	ctx.Step(`^a file "([^"]*)" with content "([^"]*)"$`, aFileWithContent)
	ctx.Step(`^a config file with the following content:$`, aConfigFileWithTheFollowingContent)
	ctx.Step(`^the file "([^"]*)" is removed$`, theFileIsRemoved)

	// When steps
	ctx.Step(`^I run "([^"]*)"$`, iRun)

	// Then steps
	ctx.Step(`^the exit code should be (\d+)$`, theExitCodeShouldBe)
	ctx.Step(`^stdout should contain "([^"]*)"$`, stdoutShouldContain)
	ctx.Step(`^stdout should not contain "([^"]*)"$`, stdoutShouldNotContain)
	ctx.Step(`^stderr should contain "([^"]*)"$`, stderrShouldContain)
	ctx.Step(`^stdout should be empty$`, stdoutShouldBeEmpty)
	ctx.Step(`^stderr should be empty$`, stderrShouldBeEmpty)
	ctx.Step(`^stdout should match pattern "([^"]*)"$`, stdoutShouldMatchPattern)
	ctx.Step(`^the output should match:$`, theOutputShouldMatch)
	ctx.Step(`^the JSON output should have "([^"]*)" equal to "([^"]*)"$`, theJSONOutputShouldHaveEqualTo)
	ctx.Step(`^the JSON output should have array "([^"]*)" with length (\d+)$`, theJSONOutputShouldHaveArrayWithLength)
	ctx.Step(`^the JSON error output should have "([^"]*)" equal to "([^"]*)"$`, theJSONErrorOutputShouldHaveEqualTo)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
	ctx.Step(`^the file "([^"]*)" should not exist$`, theFileShouldNotExist)
	ctx.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, theFileShouldContain)
	ctx.Step(`^the file "([^"]*)" should not contain "([^"]*)"$`, theFileShouldNotContain)
}

func aFeatureFileWith(ctx context.Context, path string, body *godog.DocString) error {
	return getTestEnv(ctx).CreateFile(path, body.Content+"\n")
}

func aFileWithContent(ctx context.Context, path, content string) error {
	return getTestEnv(ctx).CreateFile(path, content)
}

func aConfigFileWithTheFollowingContent(ctx context.Context, body *godog.DocString) error {
	return getTestEnv(ctx).WriteConfig(body.Content + "\n")
}

func theFileIsRemoved(ctx context.Context, path string) error {
	return getTestEnv(ctx).RemoveFile(path)
}

// iRun executes a CLI command.
func iRun(ctx context.Context, command string) (context.Context, error) {
	runner := getCLIRunner(ctx)
	if runner == nil {
		return ctx, fmt.Errorf("CLI runner not initialized")
	}

	result := runner.Run(command)
	if result.Err != nil {
		return ctx, fmt.Errorf("failed to run %q: %w", result.Command, result.Err)
	}
	return context.WithValue(ctx, lastResultKey, result), nil
}

func theExitCodeShouldBe(ctx context.Context, expected int) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	if result.ExitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, result.ExitCode, result.Stdout, result.Stderr)
	}
	return nil
}

func stdoutShouldContain(ctx context.Context, expected string) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(result.Stdout, expected) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", expected, result.Stdout)
	}
	return nil
}

func stdoutShouldNotContain(ctx context.Context, unexpected string) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(result.Stdout, unexpected) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", unexpected, result.Stdout)
	}
	return nil
}

func stderrShouldContain(ctx context.Context, expected string) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(result.Stderr, expected) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", expected, result.Stderr)
	}
	return nil
}

func stdoutShouldBeEmpty(ctx context.Context) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	if result.Stdout != "" {
		return fmt.Errorf("expected empty stdout, got:\n%s", result.Stdout)
	}
	return nil
}

func stderrShouldBeEmpty(ctx context.Context) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	if result.Stderr != "" {
		return fmt.Errorf("expected empty stderr, got:\n%s", result.Stderr)
	}
	return nil
}

func stdoutShouldMatchPattern(ctx context.Context, pattern string) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if !re.MatchString(result.Stdout) {
		return fmt.Errorf("expected stdout to match %q, got:\n%s", pattern, result.Stdout)
	}
	return nil
}

// theOutputShouldMatch compares stdout line by line, ignoring trailing
// whitespace on each line.
func theOutputShouldMatch(ctx context.Context, expected *godog.DocString) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	want := support.Lines(expected.Content)
	got := support.Lines(result.Stdout)
	if len(want) != len(got) {
		return fmt.Errorf("expected %d lines, got %d:\n%s", len(want), len(got), result.Stdout)
	}
	for i := range want {
		if strings.TrimRight(want[i], " \t") != strings.TrimRight(got[i], " \t") {
			return fmt.Errorf("line %d: expected %q, got %q", i+1, want[i], got[i])
		}
	}
	return nil
}

func jsonValue(document, path string) (string, error) {
	v, err := support.Lookup(document, path)
	if err != nil {
		return "", fmt.Errorf("%w\n%s", err, document)
	}
	return support.Format(v), nil
}

func theJSONOutputShouldHaveEqualTo(ctx context.Context, path, expected string) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	got, err := jsonValue(result.Stdout, path)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, got)
	}
	return nil
}

func theJSONOutputShouldHaveArrayWithLength(ctx context.Context, path string, expected int) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	v, err := support.Lookup(result.Stdout, path)
	if err != nil {
		return err
	}
	arr, ok := v.([]any)
	if !ok {
		return fmt.Errorf("expected %s to be an array, got %T", path, v)
	}
	if len(arr) != expected {
		return fmt.Errorf("expected %s to have %d elements, got %d", path, expected, len(arr))
	}
	return nil
}

func theJSONErrorOutputShouldHaveEqualTo(ctx context.Context, path, expected string) error {
	result, err := getLastResult(ctx)
	if err != nil {
		return err
	}
	got, err := jsonValue(result.Stderr, path)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, got)
	}
	return nil
}

func theFileShouldExist(ctx context.Context, path string) error {
	if !getTestEnv(ctx).FileExists(path) {
		return fmt.Errorf("expected file %s to exist", path)
	}
	return nil
}

func theFileShouldNotExist(ctx context.Context, path string) error {
	if getTestEnv(ctx).FileExists(path) {
		return fmt.Errorf("expected file %s not to exist", path)
	}
	return nil
}

func theFileShouldContain(ctx context.Context, path, expected string) error {
	content, err := getTestEnv(ctx).ReadFile(path)
	if err != nil {
		return err
	}
	if !strings.Contains(content, expected) {
		return fmt.Errorf("expected %s to contain %q", path, expected)
	}
	return nil
}

func theFileShouldNotContain(ctx context.Context, path, unexpected string) error {
	content, err := getTestEnv(ctx).ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file %s does not exist", path)
		}
		return err
	}
	if strings.Contains(content, unexpected) {
		return fmt.Errorf("expected %s not to contain %q", path, unexpected)
	}
	return nil
}
