package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/generate"
	"github.com/alexbrand/apidocs/internal/ui"
)

var (
	generateOutput    string
	generateTitle     string
	generateNoHistory bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the HTML documentation",
	Long: `Read every feature file below the features directory and write the
HTML documentation.

When history is configured, the run is recorded so "apidocs history diff"
can report endpoints added or removed since the previous run.

Examples:
  apidocs generate
  apidocs generate -d spec/api -o public/index.html
  apidocs generate --title "Users API" --no-history`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addFeaturesFlag(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file (overrides config)")
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "document title (overrides config)")
	generateCmd.Flags().BoolVar(&generateNoHistory, "no-history", false, "do not record this run")
}

func runGenerate(cmd *cobra.Command) error {
	cfg := config.Get()

	res, err := generate.Generate(cfg.Features, cfg.Output, renderOptions(cfg))
	if err != nil {
		return classify("failed to generate "+cfg.Output+" from "+cfg.Features, err)
	}

	w := statusOut(cmd)
	if verbose {
		for _, f := range res.Files {
			ui.FileLine(w, f)
		}
	}
	ui.WroteLine(w, cfg.Output)
	ui.SummaryLine(w, len(res.Files), len(res.Endpoints()), len(res.Report.Sections))

	if generateNoHistory {
		return nil
	}
	if _, err := recordRun(cmd.Context(), res); err != nil {
		return err
	}
	return nil
}
