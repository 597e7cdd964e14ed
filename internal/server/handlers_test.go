package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glotscan/glot/internal/classifier"
)

const goSnippet = "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLanguagesHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/languages", nil)
	rec := httptest.NewRecorder()
	s.languagesHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LanguagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, len(classifier.Supported()), resp.Count)
	require.NotEmpty(t, resp.Languages)
	assert.Equal(t, "bash", resp.Languages[0].Tag)
	assert.NotEmpty(t, resp.Languages[0].Name)
}

func TestModelHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/model", nil)
	rec := httptest.NewRecorder()
	s.modelHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ModelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp.Model["trained"])
	assert.NotEmpty(t, resp.Model["languages"])
}

func TestClassifyHandler_JSON(t *testing.T) {
	s := newTestServer(t)

	body, err := json.Marshal(ClassifyRequest{Snippet: goSnippet})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/classify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "go", resp.Result.Language)
	assert.Equal(t, "Go", resp.Result.Name)
	assert.Greater(t, resp.Result.Confidence, 0.0)
	assert.Empty(t, resp.Result.Scores)
}

func TestClassifyHandler_JSONWithRank(t *testing.T) {
	s := newTestServer(t)

	body, err := json.Marshal(ClassifyRequest{Snippet: goSnippet, Rank: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/classify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Scores, len(classifier.Supported()))
	for i := 1; i < len(resp.Result.Scores); i++ {
		assert.GreaterOrEqual(t, resp.Result.Scores[i-1].Confidence, resp.Result.Scores[i].Confidence)
	}
}

func TestClassifyHandler_Multipart(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "main.go")
	require.NoError(t, err)
	_, err = fw.Write([]byte(goSnippet))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/classify", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "go", resp.Result.Language)
}

func TestClassifyHandler_MultipartFormValue(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("snippet", "def add(a, b):\n    return a + b\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/classify", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "py", resp.Result.Language)
}

func TestClassifyHandler_EmptySnippetFallsBack(t *testing.T) {
	s := newTestServer(t)

	// Whitespace-only snippets carry no signal and resolve to the
	// default tag rather than an error.
	body, err := json.Marshal(ClassifyRequest{Snippet: "   \n\t  "})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/classify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, classifier.DefaultLanguage.String(), resp.Result.Language)
}

func TestClassifyHandler_MissingSnippet(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "no snippet provided")
}

func TestClassifyHandler_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyHandler_SnippetTooLarge(t *testing.T) {
	s := newTestServer(t)
	s.maxSnippetBytes = 64

	big := strings.Repeat("a", 1024)
	body, err := json.Marshal(ClassifyRequest{Snippet: big})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/classify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestClassifyHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/classify", nil)
	rec := httptest.NewRecorder()
	s.classifyHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestClassifyBatchHandler(t *testing.T) {
	s := newTestServer(t)

	body, err := json.Marshal(BatchClassifyRequest{Snippets: []string{
		goSnippet,
		"import os\n\ndef main():\n    print(os.getcwd())\n",
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/classify/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyBatchHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp BatchClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "go", resp.Results[0].Language)
	assert.Equal(t, "py", resp.Results[1].Language)
}

func TestClassifyBatchHandler_Empty(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/classify/batch", strings.NewReader(`{"snippets":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyBatchHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyBatchHandler_TooManySnippets(t *testing.T) {
	s := newTestServer(t)

	snippets := make([]string, maxBatchSnippets+1)
	for i := range snippets {
		snippets[i] = "x"
	}
	body, err := json.Marshal(BatchClassifyRequest{Snippets: snippets})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/classify/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.classifyBatchHandler(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSetupRoutes_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
