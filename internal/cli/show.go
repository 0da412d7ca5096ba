package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <verb> <path>",
	Short: "Display an endpoint with its examples",
	Long: `Display one documented endpoint: its group, description, parameter
signature and every example.

Examples:
  apidocs show GET /users/:id
  apidocs show "POST /users" -f json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	addFeaturesFlag(showCmd)
}

func runShow(cmd *cobra.Command, name string) error {
	fields := strings.Fields(name)
	if len(fields) != 2 {
		return NewExitCodeError(ExitError, "expected an endpoint as \"VERB PATH\", got "+name)
	}

	res, err := loadDocs(cmd)
	if err != nil {
		return err
	}

	e := findEndpoint(res.Endpoints(), fields[0], fields[1])
	if e == nil {
		return NotFoundError("endpoint " + strings.ToUpper(fields[0]) + " " + fields[1] + " not found")
	}
	return output.New(GetFormat()).FormatEndpoint(cmd.OutOrStdout(), e)
}

func findEndpoint(endpoints []*apidoc.Endpoint, verb, path string) *apidoc.Endpoint {
	for _, e := range endpoints {
		if strings.EqualFold(e.Verb, verb) && e.Path == path {
			return e
		}
	}
	return nil
}
