package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Inspect apidocs configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective configuration (file values merged over defaults)
in YAML format, or in the format selected with --format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command) error {
	cfg := config.Get()
	if cfg == nil {
		return ConfigError("no configuration loaded")
	}

	if f := GetFormat(); f != output.FormatTable {
		return output.New(f).FormatConfig(cmd.OutOrStdout(), cfg)
	}

	// Marshal config to YAML for display
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return WrapExitCodeError(ExitError, "failed to format configuration", err)
	}
	if path := config.ConfigFilePath(); path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
