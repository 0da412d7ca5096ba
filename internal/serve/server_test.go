package serve

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticBuild(page *Page, err error) BuildFunc {
	return func() (*Page, error) { return page, err }
}

func get(t *testing.T, h http.Handler, url string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_ServesPage(t *testing.T) {
	s := New(staticBuild(&Page{HTML: []byte("<h1>docs</h1>"), OpenAPI: []byte(`{"openapi":"3.0.3"}`)}, nil), nil)
	require.NoError(t, s.Rebuild())
	h := s.Handler(nil)

	rec := get(t, h, PageURL, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>docs</h1>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = get(t, h, OpenAPIURL, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"openapi":"3.0.3"}`, rec.Body.String())

	rec = get(t, h, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_NotBuiltYet(t *testing.T) {
	s := New(staticBuild(nil, nil), nil)
	rec := get(t, s.Handler(nil), PageURL, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_BuildErrorShowsErrorPage(t *testing.T) {
	fail := errors.New(`users.feature: unable to look up verb for <FETCH>`)
	s := New(staticBuild(nil, fail), nil)
	assert.ErrorIs(t, s.Rebuild(), fail)

	rec := get(t, s.Handler(nil), PageURL, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Build failed")
	assert.Contains(t, body, "&lt;FETCH&gt;")
	assert.Contains(t, body, "EventSource")

	rec = get(t, s.Handler(nil), OpenAPIURL, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RecoversAfterFailedBuild(t *testing.T) {
	var err error
	page := &Page{HTML: []byte("ok")}
	s := New(func() (*Page, error) { return page, err }, nil)

	err = errors.New("broken")
	s.Rebuild()
	err = nil
	require.NoError(t, s.Rebuild())

	rec := get(t, s.Handler(nil), PageURL, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_CORS(t *testing.T) {
	s := New(staticBuild(&Page{HTML: []byte("x")}, nil), nil)
	require.NoError(t, s.Rebuild())
	h := s.Handler([]string{"http://localhost:3000"})

	rec := get(t, h, PageURL, http.Header{"Origin": {"http://localhost:3000"}})
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, h, PageURL, http.Header{"Origin": {"http://evil.example"}})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_EventsReceiveReload(t *testing.T) {
	s := New(staticBuild(&Page{HTML: []byte("x")}, nil), nil)
	ts := httptest.NewServer(s.Handler(nil))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+EventsURL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ":ok\n", line)

	require.Eventually(t, func() bool { return s.events.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Rebuild())

	for {
		line, err = r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data:") {
			break
		}
	}
	assert.Equal(t, "data: reload\n", line)
}

func TestWatchDir_DebouncesFeatureChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := WatchDir(dir, ".feature", 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "users.feature")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("Feature: GET /users\n"), 0644))
	}

	select {
	case err := <-w.Update:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no update after writing a feature file")
	}

	select {
	case <-w.Update:
		t.Fatal("burst of writes produced more than one update")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchDir_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := WatchDir(dir, ".feature", 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case <-w.Update:
		t.Fatal("unexpected update for a non-feature file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	built := make(chan struct{}, 4)
	s := New(func() (*Page, error) {
		select {
		case built <- struct{}{}:
		default:
		}
		return &Page{HTML: []byte("x")}, nil
	}, log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, dir, ".feature", 20*time.Millisecond) }()

	require.Eventually(t, func() bool {
		os.WriteFile(filepath.Join(dir, "a.feature"), []byte("Feature: GET /a\n"), 0644)
		select {
		case <-built:
			return true
		default:
			return false
		}
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
