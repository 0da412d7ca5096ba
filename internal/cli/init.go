package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexbrand/apidocs/internal/config"
)

const projectDir = ".apidocs"

var (
	initFeatures string
	initOutput   string
	initTitle    string
	initHistory  bool
)

const exampleFeature = `# Returns the service status.
@health
Feature: GET /status

  Scenario: Service is up
    When I request the status
    Then the status code is 200
    And the Content-Type is application/json
    And the JSON response at "status" should be "ok"
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize apidocs in the current directory",
	Long: `Initialize apidocs in the current directory.

This command creates the project configuration and, when the features
directory does not exist yet, an example feature file.

Created structure:
  .apidocs/             - Project directory
  .apidocs/config.yaml  - Configuration file
  features/             - Feature files (one endpoint per file)
  features/status.feature - Example endpoint`,
	Args: cobra.NoArgs,
	// init writes the configuration, so there is none to load yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFeatures, "features", config.DefaultFeatures, "features directory")
	initCmd.Flags().StringVar(&initOutput, "output", config.DefaultOutput, "generated HTML file")
	initCmd.Flags().StringVar(&initTitle, "title", config.DefaultTitle, "document title")
	initCmd.Flags().BoolVar(&initHistory, "history", false, "record generation runs in .apidocs/history.db")
}

func runInit(cmd *cobra.Command) error {
	// Check if the project already exists
	if _, err := os.Stat(projectDir); err == nil {
		return fmt.Errorf("%s already exists", projectDir)
	}

	cfg := map[string]any{
		"version":  1,
		"features": initFeatures,
		"output":   initOutput,
		"title":    initTitle,
	}
	if initHistory {
		cfg["history"] = map[string]any{
			"path": filepath.Join(projectDir, "history.db"),
		}
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", projectDir, err)
	}

	// Write config.yaml
	configPath := filepath.Join(projectDir, "config.yaml")
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created %s/\n", projectDir)
	fmt.Fprintln(w, "  - config.yaml")

	// Seed the features directory
	if _, err := os.Stat(initFeatures); os.IsNotExist(err) {
		if err := os.MkdirAll(initFeatures, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", initFeatures, err)
		}
		example := filepath.Join(initFeatures, "status.feature")
		if err := os.WriteFile(example, []byte(exampleFeature), 0644); err != nil {
			return fmt.Errorf("failed to create example feature: %w", err)
		}
		fmt.Fprintf(w, "Created %s/\n", initFeatures)
		fmt.Fprintln(w, "  - status.feature")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ready! Try: apidocs generate")
	return nil
}
