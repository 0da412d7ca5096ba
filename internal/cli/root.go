// Package cli implements the apidocs command line.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/output"
	"github.com/alexbrand/apidocs/internal/ui"
)

var (
	cfgFile string
	format  string
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "apidocs",
	Short: "Generate API documentation from Gherkin feature files",
	Long: `apidocs turns cucumber-style feature files into a browsable HTML
API reference.

Each feature file documents one endpoint ("Feature: GET /users/:id"), each
scenario becomes an example, and the scenario's steps supply the request
parameters, status code, content type and JSON response.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !output.Format(format).IsValid() {
			return NewExitCodeError(ExitError, fmt.Sprintf("invalid format %q (valid: table, json, plain, name-only)", format))
		}
		if err := config.Init(cfgFile); err != nil {
			return WrapExitCodeError(ExitConfigError, "failed to load configuration", err)
		}
		return applyOverrides()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .apidocs/config.yaml or ~/.config/apidocs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", string(output.FormatTable), "output format: table, json, plain, name-only")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every feature file read")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress status output")
}

// Execute runs the CLI application. The returned error has already been
// reported on stderr; use GetExitCode to pick the process exit status.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd, err)
	}
	return err
}

// GetFormat returns the selected output format.
func GetFormat() output.Format {
	return output.Format(format)
}

func reportError(cmd *cobra.Command, err error) {
	if GetFormat() == output.FormatJSON {
		output.New(output.FormatJSON).FormatError(cmd.ErrOrStderr(), errorCode(err), err.Error(), nil)
		return
	}
	ui.ErrorLine(cmd.ErrOrStderr(), err)
}

// statusOut returns where progress lines go: stderr, or nowhere with --quiet.
func statusOut(cmd *cobra.Command) io.Writer {
	if quiet {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}
