package web

import (
	"encoding/json"
	"net/http"
	"os"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// SourceResponse is the JSON response structure for the source endpoint.
type SourceResponse struct {
	Filepath string `json:"filepath"`
	Source   string `json:"source"`
	Error    string `json:"error,omitempty"`
}

// handleGetSource handles GET requests to /api/source.
// Returns the book file content and the last load error, if any.
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	content, err := os.ReadFile(s.bookFile)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	s.mu.RLock()
	response := &SourceResponse{
		Filepath: s.bookFile,
		Source:   string(content),
	}
	if s.loadErr != nil {
		response.Error = s.loadErr.Error()
	}
	s.mu.RUnlock()

	writeJSONResponse(w, response)
}
