package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Every endpoint answers with the same JSON envelope: {"success": bool, ...}.
// Expected failures carry a human-readable "message"; unexpected ones carry
// the raw error text under "error".

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondError writes an expected failure (validation, auth, not-found).
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]any{"success": false, "message": message})
}

// RespondInternal writes a 500 with the raw error text, matching the
// contract that uncaught errors are surfaced unsanitized.
func RespondInternal(w http.ResponseWriter, logger *slog.Logger, err error) {
	RespondJSON(w, logger, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
}
