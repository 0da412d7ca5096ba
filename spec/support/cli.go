package support

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

// CommandResult holds the result of executing a CLI command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Command is the full command that was executed
	Command string
	// Err is set when the command could not be started
	Err error
}

// CLIRunner executes CLI commands and captures their output.
type CLIRunner struct {
	// BinaryPath is the path to the apidocs binary
	BinaryPath string
	// WorkDir is the working directory for command execution
	WorkDir string
	// Env is additional environment variables to set
	Env []string
}

// NewCLIRunner creates a new CLI runner with the given binary path.
// If binaryPath is empty, it defaults to "apidocs" (assumes it's in PATH).
func NewCLIRunner(binaryPath string) *CLIRunner {
	if binaryPath == "" {
		binaryPath = "apidocs"
	}
	return &CLIRunner{BinaryPath: binaryPath}
}

// Run executes a command string such as `apidocs list -f json`.
// A leading "apidocs" is stripped since it names the binary itself.
func (r *CLIRunner) Run(commandStr string) *CommandResult {
	args := ParseArgs(commandStr)
	if len(args) > 0 && args[0] == "apidocs" {
		args = args[1:]
	}
	return r.RunArgs(args...)
}

// RunArgs executes a command with explicit arguments and captures the result.
func (r *CLIRunner) RunArgs(args ...string) *CommandResult {
	cmd := exec.Command(r.BinaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = r.WorkDir
	cmd.Env = append(cmd.Environ(), r.Env...)

	err := cmd.Run()

	result := &CommandResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Command: r.BinaryPath + " " + strings.Join(args, " "),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		result.Err = err
	}
	return result
}

// SetEnv adds an environment variable for subsequent command executions.
func (r *CLIRunner) SetEnv(key, value string) {
	r.Env = append(r.Env, key+"="+value)
}

// ParseArgs splits a command string into arguments, honouring single and
// double quotes.
func ParseArgs(commandStr string) []string {
	var (
		args    []string
		current strings.Builder
		quote   rune
		started bool
	)

	for _, ch := range commandStr {
		switch {
		case quote != 0 && ch == quote:
			quote = 0
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
			started = true
		case quote == 0 && ch == ' ':
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(ch)
			started = true
		}
	}

	if started {
		args = append(args, current.String())
	}
	return args
}

// Lines splits output into lines, dropping trailing empty lines.
func Lines(s string) []string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
