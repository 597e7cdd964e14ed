package support

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"

	"github.com/glotscan/glot/internal/server"
)

// HTTPTestServerWrapper wraps httptest.Server for integration tests.
type HTTPTestServerWrapper struct {
	Server     *httptest.Server
	TestServer *server.Server
}

// startTestHTTPServer starts an in-process classification server backed by
// the embedded model. httptest picks its own port; scenarios address the
// server through the stored host and port.
func (testCtx *TestContext) startTestHTTPServer() error {
	cfg := server.Config{
		CORSOrigin:   "*",
		MaxSnippetKB: 64,
		TimeoutSec:   10,
		ModelPath:    testCtx.ModelPath,
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)
	ts := httptest.NewServer(mux)

	u, err := url.Parse(ts.URL)
	if err != nil {
		ts.Close()
		return fmt.Errorf("failed to parse server URL: %w", err)
	}

	testCtx.ServerHost = u.Hostname()
	if portStr := u.Port(); portStr != "" {
		testCtx.ServerPort, _ = strconv.Atoi(portStr)
	}

	testCtx.HTTPTestServer = &HTTPTestServerWrapper{
		Server:     ts,
		TestServer: srv,
	}

	return nil
}

// stopTestHTTPServer stops the httptest server.
func (testCtx *TestContext) stopTestHTTPServer() error {
	if testCtx.HTTPTestServer != nil && testCtx.HTTPTestServer.Server != nil {
		testCtx.HTTPTestServer.Server.Close()
		testCtx.HTTPTestServer = nil
	}
	return nil
}

// serverBaseURL returns the base URL of the running test server.
func (testCtx *TestContext) serverBaseURL() string {
	return fmt.Sprintf("http://%s:%d", testCtx.ServerHost, testCtx.ServerPort)
}
