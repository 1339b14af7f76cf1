package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIErrorBody is the JSON error envelope returned by the knowledge-base API.
type APIErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// WriteJSON serializes data to JSON and writes it to w with statusCode and a
// "Content-Type: application/json" header.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteError writes an [APIErrorBody] with the given status, error code and
// message.
//
// Example usage:
//
//	WriteError(w, http.StatusNotFound, "document_not_found", "Document not found.")
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	_, _ = WriteJSON(w, APIErrorBody{Code: code, Message: message, Status: statusCode}, statusCode)
}
