package cli

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/output"
)

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, git commit, and build date of the apidocs CLI.`,
	// Printing the version never needs a configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		version, commit := buildVersion()
		w := cmd.OutOrStdout()

		if GetFormat() == output.FormatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"version":    version,
				"git_commit": commit,
				"build_date": BuildDate,
				"go":         runtime.Version(),
			})
		}

		fmt.Fprintf(w, "apidocs version %s\n", version)
		if verbose {
			fmt.Fprintf(w, "  git commit: %s\n", commit)
			fmt.Fprintf(w, "  build date: %s\n", BuildDate)
			fmt.Fprintf(w, "  go:         %s\n", runtime.Version())
		}
		return nil
	},
}

// buildVersion falls back to the module build info when the binary was
// built without ldflags, e.g. by go install.
func buildVersion() (version, commit string) {
	version, commit = Version, GitCommit
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit
	}
	if v := info.Main.Version; v != "" && v != "(devel)" && Version == "0.1.0-dev" {
		version = v
	}
	if commit == "unknown" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				commit = s.Value
			}
		}
	}
	return version, commit
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
