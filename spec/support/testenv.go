// Package support provides test helpers for the apidocs CLI specs.
package support

import (
	"os"
	"path/filepath"
)

// TestEnv holds the test environment state for a scenario.
type TestEnv struct {
	// TempDir is the temporary project directory for this scenario
	TempDir string
	// ProjectDir is the .apidocs directory within TempDir
	ProjectDir string
	// HomeDir isolates the user-level config from the scenario
	HomeDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv() (*TestEnv, error) {
	tempDir, err := os.MkdirTemp("", "apidocs-test-*")
	if err != nil {
		return nil, err
	}

	home := filepath.Join(tempDir, ".home")
	if err := os.MkdirAll(home, 0755); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	return &TestEnv{
		TempDir:    tempDir,
		ProjectDir: filepath.Join(tempDir, ".apidocs"),
		HomeDir:    home,
	}, nil
}

// Cleanup removes the temporary directory.
func (e *TestEnv) Cleanup() error {
	return os.RemoveAll(e.TempDir)
}

// CreateFile creates a file with the given content within the temp directory.
func (e *TestEnv) CreateFile(relativePath, content string) error {
	fullPath := e.Path(relativePath)

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(content), 0644)
}

// WriteConfig writes the project config file.
func (e *TestEnv) WriteConfig(content string) error {
	return e.CreateFile(filepath.Join(".apidocs", "config.yaml"), content)
}

// RemoveFile deletes a file within the temp directory.
func (e *TestEnv) RemoveFile(relativePath string) error {
	return os.Remove(e.Path(relativePath))
}

// ReadFile reads a file from the temp directory.
func (e *TestEnv) ReadFile(relativePath string) (string, error) {
	content, err := os.ReadFile(e.Path(relativePath))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// FileExists checks if a file exists within the temp directory.
func (e *TestEnv) FileExists(relativePath string) bool {
	_, err := os.Stat(e.Path(relativePath))
	return err == nil
}

// Path returns the full path for a relative path within the temp directory.
func (e *TestEnv) Path(relativePath string) string {
	return filepath.Join(e.TempDir, relativePath)
}
