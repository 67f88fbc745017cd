package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"llmchat-backend/internal/models"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
		// Header is already written; nothing left to do but log.
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message})
}

// RespondErrorDetails writes a JSON error response carrying the causing detail
// text alongside the outward message.
func RespondErrorDetails(w http.ResponseWriter, statusCode int, message, details string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message, Details: details})
}
