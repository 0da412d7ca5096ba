// Package serve runs a live preview of the generated documentation,
// rebuilding it whenever a feature file changes.
package serve

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"
)

// URLs served by the preview handler.
const (
	PageURL    = "/"
	OpenAPIURL = "/openapi.json"
	EventsURL  = "/events"
)

const reloadMessage = "reload"

// Page is one build of the documentation.
type Page struct {
	HTML    []byte
	OpenAPI []byte
}

// BuildFunc produces a fresh Page from the current feature files.
type BuildFunc func() (*Page, error)

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Build failed</title></head>
<body>
<h1>Build failed</h1>
<pre>{{.Err}}</pre>
<script>
    new EventSource("{{.Events}}").onmessage = function() { location.reload(); };
</script>
</body>
</html>
`))

// Server holds the latest build and notifies browsers when it changes.
type Server struct {
	build  BuildFunc
	events *broadcaster
	logger *log.Logger

	mu   sync.RWMutex
	page *Page
	err  error
}

// New creates a Server. Call Rebuild before serving to load the first page.
func New(build BuildFunc, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		build:  build,
		events: newBroadcaster(),
		logger: logger,
	}
}

// Rebuild runs the build and tells connected browsers to reload. A failed
// build replaces the page with an error page until the next success.
func (s *Server) Rebuild() error {
	page, err := s.build()

	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.page, s.err = page, nil
	}
	s.mu.Unlock()

	s.events.broadcast(reloadMessage)
	return err
}

func (s *Server) current() (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, s.err
}

// Handler returns the preview handler. Requests from origins are allowed
// cross-origin; an empty list allows none.
func (s *Server) Handler(origins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PageURL+"{$}", s.servePage)
	mux.HandleFunc("GET "+OpenAPIURL, s.serveOpenAPI)
	mux.Handle("GET "+EventsURL, s.events)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet},
	})
	return c.Handler(mux)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.current()
	if err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errorPage.Execute(w, struct {
			Err    string
			Events string
		}{err.Error(), EventsURL})
		return
	}
	if page == nil {
		http.Error(w, "documentation not built yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.HTML)
}

func (s *Server) serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	page, err := s.current()
	if err != nil || page == nil || page.OpenAPI == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(page.OpenAPI)
}

// Watch rebuilds whenever a feature file below dir changes, until ctx is
// cancelled.
func (s *Server) Watch(ctx context.Context, dir, suffix string, debounce time.Duration) error {
	w, err := WatchDir(dir, suffix, debounce)
	if err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Update:
			if err != nil {
				s.logger.Print(err)
				continue
			}
			if err := s.Rebuild(); err != nil {
				s.logger.Printf("Unable to rebuild documentation: %v", err)
				continue
			}
			s.logger.Print("Documentation rebuilt")
		}
	}
}

// ListenAndServe serves handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end with ctx so Shutdown does not wait on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
