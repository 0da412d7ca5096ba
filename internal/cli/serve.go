package cli

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/config"
	"github.com/alexbrand/apidocs/internal/feature"
	"github.com/alexbrand/apidocs/internal/generate"
	"github.com/alexbrand/apidocs/internal/openapi"
	"github.com/alexbrand/apidocs/internal/serve"
	"github.com/alexbrand/apidocs/internal/ui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live preview of the documentation",
	Long: `Serve the documentation over HTTP and rebuild it whenever a feature file
changes. Open pages reload automatically.

The OpenAPI document of the current build is served at /openapi.json.

Examples:
  apidocs serve
  apidocs serve --addr 127.0.0.1:9000 -d spec/api`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addFeaturesFlag(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command) error {
	cfg := config.Get()
	addr := cfg.Serve.Addr
	dir := cfg.Features

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	srv := serve.New(pageBuilder(dir, cfg, logger), logger)
	if err := srv.Rebuild(); err != nil {
		logger.Printf("Unable to build documentation: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Watch(ctx, dir, feature.Extension, cfg.Serve.Debounce); err != nil {
			logger.Printf("Unable to watch for file updates: %v", err)
		}
	}()

	ui.ServeLine(statusOut(cmd), serveURL(addr))
	if err := serve.ListenAndServe(ctx, addr, srv.Handler(cfg.Serve.CORSOrigins)); err != nil {
		return WrapExitCodeError(ExitError, "server failed", err)
	}
	return nil
}

// pageBuilder returns the build run on every change. A document that cannot
// be exported to OpenAPI is still served as HTML.
func pageBuilder(dir string, cfg *config.Config, logger *log.Logger) serve.BuildFunc {
	opts := renderOptions(cfg)
	opts.LiveReload = serve.EventsURL
	info := openapiInfo(cfg)

	return func() (*serve.Page, error) {
		res, err := generate.Load(dir)
		if err != nil {
			return nil, err
		}
		html, err := res.HTML(opts)
		if err != nil {
			return nil, err
		}
		page := &serve.Page{HTML: html}

		doc, err := res.OpenAPI(info)
		if err == nil {
			page.OpenAPI, err = openapi.MarshalJSON(doc)
		}
		if err != nil {
			logger.Printf("Unable to export OpenAPI document: %v", err)
		}
		return page, nil
	}
}

func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
