package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"facegateway/internal/gateway"
)

const maxRequestBytes = 20 << 20 // foto base64 bisa besar

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"message": "payload too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid json"})
		return false
	}
	return true
}

// writeGatewayError maps the error kinds that every endpoint shares.
// Endpoint-specific shapes (external error keys) are handled by the caller.
func writeGatewayError(w http.ResponseWriter, err error) {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal server error"})
		return
	}
	switch gerr.Kind {
	case gateway.KindValidation:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": gerr.Message,
			"errors":  gerr.Fields,
		})
	case gateway.KindTransport:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": gerr.Message,
			"error":   errors.Unwrap(gerr).Error(),
		})
	case gateway.KindNotFound:
		body := map[string]any{"message": gerr.Message}
		if gerr.NIK != "" {
			body["nik"] = gerr.NIK
		}
		writeJSON(w, http.StatusNotFound, body)
	case gateway.KindExternal:
		writeJSON(w, gerr.StatusCode, map[string]any{"message": gerr.Message, "error": gerr.Payload})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal server error"})
	}
}

// writeExternalError pakai key body sesuai endpoint (python_error / flask_error).
func writeExternalError(w http.ResponseWriter, err error, key string) bool {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) || gerr.Kind != gateway.KindExternal {
		return false
	}
	writeJSON(w, gerr.StatusCode, map[string]any{"message": gerr.Message, key: gerr.Payload})
	return true
}
