package httpapi

import (
	"encoding/json"
	"net/http"

	"genbridge/internal/bridge"
	"genbridge/pkg/types"
)

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

// callErrorStatus maps bridge errors to HTTP status codes.
func callErrorStatus(err error) int {
	switch {
	case bridge.IsInvalidArguments(err):
		return http.StatusBadRequest
	case bridge.IsNotImplemented(err):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeCallError writes a bridge error with its host-facing code.
func writeCallError(w http.ResponseWriter, err error) int {
	status := callErrorStatus(err)
	writeJSON(w, status, types.ErrorResponse{Error: err.Error(), Code: status, Reason: bridge.Code(err)})
	return status
}
