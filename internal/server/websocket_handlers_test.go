package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestWebSocket(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()

	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/classify"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestClassifyWebSocket_Roundtrip(t *testing.T) {
	s := newTestServer(t)
	conn := dialTestWebSocket(t, s)

	req := WebSocketClassifyRequest{Snippet: goSnippet}
	require.NoError(t, conn.WriteJSON(req))

	var resp WebSocketClassifyResponse
	require.NoError(t, conn.ReadJSON(&resp))

	assert.Equal(t, "classify_response", resp.Type)
	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.RequestID)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "go", resp.Result.Language)
	assert.Greater(t, resp.Result.Confidence, 0.0)
}

func TestClassifyWebSocket_RankedScores(t *testing.T) {
	s := newTestServer(t)
	conn := dialTestWebSocket(t, s)

	require.NoError(t, conn.WriteJSON(WebSocketClassifyRequest{Snippet: goSnippet, Rank: true}))

	var resp WebSocketClassifyResponse
	require.NoError(t, conn.ReadJSON(&resp))

	require.NotNil(t, resp.Result)
	assert.NotEmpty(t, resp.Result.Scores)
}

func TestClassifyWebSocket_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	conn := dialTestWebSocket(t, s)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var resp WebSocketClassifyResponse
	require.NoError(t, conn.ReadJSON(&resp))

	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, "invalid_request", resp.ErrorType)
}

func TestClassifyWebSocket_SnippetTooLarge(t *testing.T) {
	s := newTestServer(t)
	s.maxSnippetBytes = 16
	conn := dialTestWebSocket(t, s)

	require.NoError(t, conn.WriteJSON(WebSocketClassifyRequest{Snippet: strings.Repeat("a", 64)}))

	var resp WebSocketClassifyResponse
	require.NoError(t, conn.ReadJSON(&resp))

	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Error, "Snippet too large")
}

func TestClassifyWebSocket_MultipleRequests(t *testing.T) {
	s := newTestServer(t)
	conn := dialTestWebSocket(t, s)

	snippets := map[string]string{
		goSnippet: "go",
		"import os\n\ndef main():\n    print(os.getcwd())\n": "py",
	}

	for snippet, want := range snippets {
		require.NoError(t, conn.WriteJSON(WebSocketClassifyRequest{Snippet: snippet}))

		var resp WebSocketClassifyResponse
		require.NoError(t, conn.ReadJSON(&resp))
		require.NotNil(t, resp.Result, "snippet %q", snippet)
		assert.Equal(t, want, resp.Result.Language)
	}
}

func TestSendWebSocketError_Marshals(t *testing.T) {
	s := newTestServer(t)

	var captured []byte
	writer := writerFunc(func(messageType int, data []byte) error {
		captured = data
		return nil
	})

	s.sendWebSocketError(writer, "invalid_request", "boom")

	var resp WebSocketClassifyResponse
	require.NoError(t, json.Unmarshal(captured, &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "boom", resp.Error)
}

// writerFunc adapts a function to WebSocketConnWriter.
type writerFunc func(messageType int, data []byte) error

func (f writerFunc) WriteMessage(messageType int, data []byte) error {
	return f(messageType, data)
}
