package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/glotscan/glot/internal/classifier"
	"github.com/glotscan/glot/internal/version"
)

// maxBatchSnippets caps how many snippets one batch request may carry.
const maxBatchSnippets = 100

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v, _, _ := version.Info()
	response := HealthResponse{
		Status:  "healthy",
		Version: v,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// languagesHandler returns the supported language tags.
func (s *Server) languagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	supported := classifier.Supported()
	languages := make([]LanguageInfo, len(supported))
	for i, lang := range supported {
		languages[i] = LanguageInfo{Tag: lang.String(), Name: lang.Name()}
	}

	response := LanguagesResponse{
		Languages: languages,
		Count:     len(languages),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding languages response: %v\n", err)
	}
}

// modelHandler returns metadata about the loaded model table.
func (s *Server) modelHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := ModelResponse{Model: s.classifier.ModelInfo()}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding model response: %v\n", err)
	}
}

// classifyHandler classifies a single snippet. The snippet arrives as a
// JSON body, a multipart file upload, or a form value.
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxSnippetBytes)

	snippet, rank, err := s.readSnippet(r)
	if err != nil {
		if isBodyTooLarge(err) {
			s.writeErrorResponse(w, "Snippet too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	result, err := s.classifySnippet(snippet, rank, "http")
	if err != nil {
		classificationsTotal.WithLabelValues("http", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Classification failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := ClassifyResponse{Success: true, Result: result}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding classify response: %v\n", err)
	}
}

// classifyBatchHandler classifies multiple snippets in one request.
func (s *Server) classifyBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxSnippetBytes)

	var req BatchClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			s.writeBatchErrorResponse(w, "Request too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeBatchErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		}
		return
	}
	if len(req.Snippets) == 0 {
		s.writeBatchErrorResponse(w, "No snippets provided", http.StatusBadRequest)
		return
	}
	if len(req.Snippets) > maxBatchSnippets {
		s.writeBatchErrorResponse(w,
			fmt.Sprintf("Too many snippets (max %d)", maxBatchSnippets),
			http.StatusRequestEntityTooLarge)
		return
	}

	results := make([]ClassifyResult, 0, len(req.Snippets))
	for _, snippet := range req.Snippets {
		result, err := s.classifySnippet(snippet, req.Rank, "http_batch")
		if err != nil {
			classificationsTotal.WithLabelValues("http_batch", "error").Inc()
			s.writeBatchErrorResponse(w, fmt.Sprintf("Classification failed: %v", err), http.StatusInternalServerError)
			return
		}
		results = append(results, *result)
	}

	w.Header().Set("Content-Type", "application/json")
	response := BatchClassifyResponse{Success: true, Results: results, Count: len(results)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding batch classify response: %v\n", err)
	}
}

// classifySnippet runs one snippet through the classifier and records
// metrics for the run under the given transport label.
func (s *Server) classifySnippet(snippet string, rank bool, transport string) (*ClassifyResult, error) {
	start := time.Now()

	lang, err := s.classifier.Classify(snippet)
	if err != nil {
		return nil, err
	}
	scores, err := s.classifier.Rank(snippet)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)

	result := &ClassifyResult{
		Language:   lang.String(),
		Name:       lang.Name(),
		DurationMs: duration.Milliseconds(),
	}
	for _, score := range scores {
		if score.Language == lang {
			result.Confidence = score.Confidence
			break
		}
	}
	if rank {
		result.Scores = scores
	}

	classificationsTotal.WithLabelValues(transport, "success").Inc()
	classificationsByLanguage.WithLabelValues(lang.String()).Inc()
	classificationDuration.WithLabelValues(transport).Observe(duration.Seconds())
	snippetLength.Observe(float64(len(snippet)))

	return result, nil
}

// readSnippet extracts the snippet and rank flag from a request body.
func (s *Server) readSnippet(r *http.Request) (string, bool, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(s.maxSnippetBytes); err != nil {
			return "", false, err
		}
		rank := r.FormValue("rank") == "1" || r.FormValue("rank") == "true"

		if file, header, err := r.FormFile("file"); err == nil {
			defer func() { _ = file.Close() }()
			if header.Size > s.maxSnippetBytes {
				return "", false, fmt.Errorf("http: request body too large")
			}
			data, err := io.ReadAll(file)
			if err != nil {
				return "", false, fmt.Errorf("failed to read uploaded file")
			}
			return string(data), rank, nil
		}

		if snippet := r.FormValue("snippet"); snippet != "" {
			return snippet, rank, nil
		}
		return "", false, fmt.Errorf("no snippet provided")
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			return "", false, err
		}
		return "", false, fmt.Errorf("invalid JSON body")
	}
	if req.Snippet == "" {
		return "", false, fmt.Errorf("no snippet provided")
	}
	return req.Snippet, req.Rank, nil
}

// isBodyTooLarge distinguishes the MaxBytesReader error from generic
// decode failures.
func isBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "body too large") ||
		strings.Contains(msg, "request body too large")
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ClassifyResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}

// writeBatchErrorResponse writes a JSON error response for batch requests.
func (s *Server) writeBatchErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := BatchClassifyResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
