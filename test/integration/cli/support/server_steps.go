package support

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// theClassificationServerIsRunning starts the in-process test server.
func (testCtx *TestContext) theClassificationServerIsRunning() error {
	if testCtx.HTTPTestServer != nil {
		return nil
	}
	return testCtx.startTestHTTPServer()
}

// doRequest executes an HTTP request against the test server and records
// the response in the context.
func (testCtx *TestContext) doRequest(method, path string, body io.Reader, contentType string) error {
	if testCtx.HTTPTestServer == nil {
		return fmt.Errorf("no server running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, testCtx.serverBaseURL()+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastHTTPResponse = string(respBody)
	testCtx.LastHTTPHeaders = map[string]string{}
	for name := range resp.Header {
		testCtx.LastHTTPHeaders[name] = resp.Header.Get(name)
	}

	return nil
}

// iSendAGETRequestTo issues a GET request to the given path.
func (testCtx *TestContext) iSendAGETRequestTo(path string) error {
	return testCtx.doRequest(http.MethodGet, path, nil, "")
}

// iSendAClassifyRequestWithASnippet posts a sample snippet for the given
// language tag to /classify.
func (testCtx *TestContext) iSendAClassifyRequestWithASnippet(tag string) error {
	snippet, ok := sampleSnippets[tag]
	if !ok {
		return fmt.Errorf("no sample snippet for language tag %q", tag)
	}
	return testCtx.postClassify(snippet, false)
}

// iSendARankedClassifyRequestWithASnippet posts a sample snippet with
// ranked scores requested.
func (testCtx *TestContext) iSendARankedClassifyRequestWithASnippet(tag string) error {
	snippet, ok := sampleSnippets[tag]
	if !ok {
		return fmt.Errorf("no sample snippet for language tag %q", tag)
	}
	return testCtx.postClassify(snippet, true)
}

// iSendAClassifyRequestWithAnEmptySnippet posts an empty snippet.
func (testCtx *TestContext) iSendAClassifyRequestWithAnEmptySnippet() error {
	return testCtx.postClassify("", false)
}

func (testCtx *TestContext) postClassify(snippet string, rank bool) error {
	payload, err := json.Marshal(map[string]interface{}{
		"snippet": snippet,
		"rank":    rank,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return testCtx.doRequest(http.MethodPost, "/classify", bytes.NewReader(payload), "application/json")
}

// iSendABatchClassifyRequestWithSnippets posts sample snippets for the two
// given language tags to /classify/batch.
func (testCtx *TestContext) iSendABatchClassifyRequestWithSnippets(tag1, tag2 string) error {
	var snippets []string
	for _, tag := range []string{tag1, tag2} {
		snippet, ok := sampleSnippets[tag]
		if !ok {
			return fmt.Errorf("no sample snippet for language tag %q", tag)
		}
		snippets = append(snippets, snippet)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"snippets": snippets,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return testCtx.doRequest(http.MethodPost, "/classify/batch", bytes.NewReader(payload), "application/json")
}

// theResponseStatusShouldBe verifies the HTTP status code.
func (testCtx *TestContext) theResponseStatusShouldBe(status int) error {
	if testCtx.LastHTTPStatusCode != status {
		return fmt.Errorf("expected status %d, got %d\nResponse: %s",
			status, testCtx.LastHTTPStatusCode, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseShouldContain verifies the response body contains text.
func (testCtx *TestContext) theResponseShouldContain(text string) error {
	if !strings.Contains(testCtx.LastHTTPResponse, text) {
		return fmt.Errorf("response does not contain '%s'\nActual response: %s",
			text, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseShouldBeValidJSON verifies the response body is JSON.
func (testCtx *TestContext) theResponseShouldBeValidJSON() error {
	var js json.RawMessage
	if err := json.Unmarshal([]byte(testCtx.LastHTTPResponse), &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w\nResponse: %s", err, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseJSONFieldShouldBe verifies a (possibly nested) JSON field value.
func (testCtx *TestContext) theResponseJSONFieldShouldBe(field, expected string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(testCtx.LastHTTPResponse), &data); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}

	parts := strings.Split(field, ".")
	var current interface{} = data
	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot navigate into non-object at '%s'", part)
		}
		val, exists := obj[part]
		if !exists {
			return fmt.Errorf("field '%s' not found in response", field)
		}
		current = val
	}

	if fmt.Sprintf("%v", current) != expected {
		return fmt.Errorf("field '%s' is '%v', expected '%s'", field, current, expected)
	}
	return nil
}

// theResponseHeaderShouldBe verifies a response header value.
func (testCtx *TestContext) theResponseHeaderShouldBe(name, expected string) error {
	actual, exists := testCtx.LastHTTPHeaders[name]
	if !exists {
		return fmt.Errorf("response header '%s' not set", name)
	}
	if actual != expected {
		return fmt.Errorf("response header '%s' is '%s', expected '%s'", name, actual, expected)
	}
	return nil
}

// RegisterServerSteps registers all server step definitions.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the classification server is running$`, testCtx.theClassificationServerIsRunning)
	sc.Step(`^I send a GET request to "([^"]*)"$`, testCtx.iSendAGETRequestTo)
	sc.Step(`^I send a classify request with a "([^"]*)" snippet$`, testCtx.iSendAClassifyRequestWithASnippet)
	sc.Step(`^I send a ranked classify request with a "([^"]*)" snippet$`, testCtx.iSendARankedClassifyRequestWithASnippet)
	sc.Step(`^I send a classify request with an empty snippet$`, testCtx.iSendAClassifyRequestWithAnEmptySnippet)
	sc.Step(`^I send a batch classify request with "([^"]*)" and "([^"]*)" snippets$`,
		testCtx.iSendABatchClassifyRequestWithSnippets)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^the response should be valid JSON$`, testCtx.theResponseShouldBeValidJSON)
	sc.Step(`^the response JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseJSONFieldShouldBe)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseHeaderShouldBe)
}
