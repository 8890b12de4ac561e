package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/esreport/internal/config"
	"github.com/syntrixbase/esreport/pkg/model"
)

const testSpec = `
indexTag: app-logs
luceneQueryLanguage: "level:error"
tableHeaders:
  - label: Service
    visibility: true
  - label: Code
    visibility: true
tableValues:
  - service
  - code
sort: Code DESC
`

// fakeBackend serves one page of hits, then an empty page.
func fakeBackend(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/saved_objects/search/"):
			if strings.HasSuffix(r.URL.Path, "/known") {
				w.Write([]byte(`{"attributes":{"title":"t","kibanaSavedObjectMeta":{"searchSourceJSON":"{\"query\":{\"query\":\"level:warn\",\"language\":\"kuery\"}}"}}}`))
				return
			}
			http.NotFound(w, r)
		case r.URL.Path == "/app-logs-*/_search":
			if calls.Add(1) > 1 {
				w.Write([]byte(`{"hits":{"hits":[]}}`))
				return
			}
			w.Write([]byte(`{"hits":{"hits":[
				{"_id":"1","_source":{"service":"api","code":404},"sort":[1]},
				{"_id":"2","_source":{"service":"web","code":500},"sort":[2]}
			]}}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeTestConfig(t *testing.T, backendURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := `
search:
  url: ` + backendURL + `
  ui_endpoint: ` + backendURL + `/api
  retry_max: 0
logging:
  console:
    enabled: false
  file:
    enabled: false
server:
  http_port: 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(cfg), 0o644))
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand_Text(t *testing.T) {
	backend, calls := fakeBackend(t)
	dir := writeTestConfig(t, backend.URL)
	specPath := filepath.Join(t.TempDir(), "spec.yml")
	require.NoError(t, os.WriteFile(specPath, []byte(testSpec), 0o644))

	out, err := execute(t, "", "--config", dir, "run", "--spec", specPath)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Contains(t, out, "Service")
	assert.Less(t, strings.Index(out, "web"), strings.Index(out, "api"))
}

func TestRunCommand_JSONFromStdin(t *testing.T) {
	backend, _ := fakeBackend(t)
	dir := writeTestConfig(t, backend.URL)

	out, err := execute(t, testSpec, "--config", dir, "run", "-s", "-", "-f", "json")
	require.NoError(t, err)

	assert.JSONEq(t, `{"columns":["Service","Code"],"rows":[["web","500"],["api","404"]]}`, out)
}

func TestRunCommand_Errors(t *testing.T) {
	backend, calls := fakeBackend(t)
	dir := writeTestConfig(t, backend.URL)

	_, err := execute(t, "", "--config", dir, "run")
	assert.Error(t, err, "spec flag is required")

	_, err = execute(t, testSpec, "--config", dir, "run", "-s", "-", "-f", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	_, err = execute(t, "indexTag: [", "--config", dir, "run", "-s", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse spec")

	_, err = execute(t, "indexTag: app-logs\n", "--config", dir, "run", "-s", "-")
	assert.ErrorIs(t, err, model.ErrInvalidSpec)

	_, err = execute(t, testSpec, "--config", dir, "--log-level", "chatty", "run", "-s", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	assert.Zero(t, calls.Load())
}

func TestSavedQueryCommand(t *testing.T) {
	backend, _ := fakeBackend(t)
	dir := writeTestConfig(t, backend.URL)

	out, err := execute(t, "", "--config", dir, "saved-query", "known")
	require.NoError(t, err)
	assert.Equal(t, "level:warn\n", out)

	_, err = execute(t, "", "--config", dir, "saved-query", "missing")
	assert.ErrorIs(t, err, model.ErrSavedQueryNotFound)

	_, err = execute(t, "", "--config", dir, "saved-query")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestServe_StopsOnCancel(t *testing.T) {
	backend, _ := fakeBackend(t)
	cfg, err := config.LoadConfig(writeTestConfig(t, backend.URL))
	require.NoError(t, err)

	a, err := newApp(cfg)
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx, a))
}
