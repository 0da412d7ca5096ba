package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/generate"
	"github.com/alexbrand/apidocs/internal/history"
	"github.com/alexbrand/apidocs/internal/openapi"
	"github.com/alexbrand/apidocs/internal/render"
	"github.com/alexbrand/apidocs/internal/ui"
)

// featuresFlag overrides the configured features directory when set.
var featuresFlag string

func addFeaturesFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&featuresFlag, "features", "d", "", "features directory (overrides config)")
}

// applyOverrides copies the flags given on the command line into the
// configuration, so commands read every setting from config.Get.
func applyOverrides() error {
	overrides := []struct {
		flag, key, value string
	}{
		{"features", "features", featuresFlag},
		{"output", "output", generateOutput},
		{"title", "title", generateTitle},
		{"addr", "serve.addr", serveAddr},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if err := config.Set(o.key, o.value); err != nil {
			return WrapExitCodeError(ExitConfigError, "invalid --"+o.flag, err)
		}
	}
	return nil
}

// loadDocs runs the pipeline over the features directory.
func loadDocs(cmd *cobra.Command) (*generate.Result, error) {
	dir := config.Get().Features
	res, err := generate.Load(dir)
	if err != nil {
		return nil, classify("failed to read features in "+dir, err)
	}
	if verbose {
		for _, f := range res.Files {
			ui.FileLine(statusOut(cmd), f)
		}
	}
	return res, nil
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Title:         cfg.Title,
		StylesheetURL: cfg.Assets.Stylesheet,
		ThemeURL:      cfg.Assets.Theme,
		JQueryURL:     cfg.Assets.JQuery,
		ScriptURL:     cfg.Assets.Script,
	}
}

func openapiInfo(cfg *config.Config) openapi.Info {
	return openapi.Info{
		Title:   cfg.Title,
		Version: cfg.APIVersion,
	}
}

// openHistory opens the configured history store. It returns a nil store
// when history is disabled.
func openHistory() (*history.Store, error) {
	path := config.Get().History.Path
	if path == "" {
		return nil, nil
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, WrapExitCodeError(ExitError, "failed to open history", err)
	}
	return store, nil
}

// recordRun stores the endpoints of res when history is enabled.
func recordRun(ctx context.Context, res *generate.Result) (*history.Run, error) {
	store, err := openHistory()
	if err != nil || store == nil {
		return nil, err
	}
	defer store.Close()

	run, err := store.Record(ctx, res.Endpoints())
	if err != nil {
		return nil, WrapExitCodeError(ExitError, "failed to record run", err)
	}
	return run, nil
}
