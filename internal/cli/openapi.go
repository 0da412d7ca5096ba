package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/openapi"
	"github.com/alexbrand/apidocs/internal/ui"
)

var (
	openapiOutput   string
	openapiEncoding string
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Export the endpoints as an OpenAPI 3 document",
	Long: `Build an OpenAPI 3 document from the feature files. Groups become tags,
":id" path segments become path parameters and every example response is
attached as a named example.

The encoding follows --encoding, or the extension of --output (.json,
.yaml, .yml), and defaults to YAML.

Examples:
  apidocs openapi                     # YAML on stdout
  apidocs openapi -o openapi.json     # JSON file
  apidocs openapi --encoding json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpenAPI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(openapiCmd)

	addFeaturesFlag(openapiCmd)
	openapiCmd.Flags().StringVarP(&openapiOutput, "output", "o", "", "output file (default: stdout)")
	openapiCmd.Flags().StringVar(&openapiEncoding, "encoding", "", "json or yaml")
}

func runOpenAPI(cmd *cobra.Command) error {
	encoding, err := openapiEncodingFor(openapiEncoding, openapiOutput)
	if err != nil {
		return err
	}

	res, err := loadDocs(cmd)
	if err != nil {
		return err
	}

	doc, err := res.OpenAPI(openapiInfo(config.Get()))
	if err != nil {
		return WrapExitCodeError(ExitInputError, "failed to build OpenAPI document", err)
	}
	if err := openapi.Validate(cmd.Context(), doc); err != nil {
		return WrapExitCodeError(ExitInputError, "generated OpenAPI document is invalid", err)
	}

	var data []byte
	if encoding == "json" {
		data, err = openapi.MarshalJSON(doc)
	} else {
		data, err = openapi.MarshalYAML(doc)
	}
	if err != nil {
		return WrapExitCodeError(ExitError, "failed to encode OpenAPI document", err)
	}

	if openapiOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(openapiOutput); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return WrapExitCodeError(ExitError, "failed to create "+dir, err)
		}
	}
	if err := os.WriteFile(openapiOutput, data, 0644); err != nil {
		return WrapExitCodeError(ExitError, "failed to write "+openapiOutput, err)
	}
	ui.WroteLine(statusOut(cmd), openapiOutput)
	return nil
}

func openapiEncodingFor(explicit, output string) (string, error) {
	switch strings.ToLower(explicit) {
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	case "":
	default:
		return "", NewExitCodeError(ExitError, fmt.Sprintf("invalid encoding %q (valid: json, yaml)", explicit))
	}
	if strings.EqualFold(filepath.Ext(output), ".json") {
		return "json", nil
	}
	return "yaml", nil
}
