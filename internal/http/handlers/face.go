package handlers

import (
	"net/http"

	"facegateway/internal/gateway"
)

type FaceHandler struct {
	Gateway *gateway.Gateway
}

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	NIK   string `json:"nik"`
	Email string `json:"email"`
}

// POST /face-register
func (h *FaceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req gateway.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Gateway.Register(r.Context(), req)
	if err != nil {
		if !writeExternalError(w, err, "python_error") {
			writeGatewayError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         gateway.MsgRegistered,
		"user_data":       res.User,
		"python_response": res.External,
	})
}

// POST /face-recognize
func (h *FaceHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	var req gateway.RecognizeInput
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Gateway.Recognize(r.Context(), req)
	if err != nil {
		if !writeExternalError(w, err, "flask_error") {
			writeGatewayError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Wajah dikenali: " + res.User.Name,
		"user_data": userSummary{
			ID:    res.User.ID,
			Name:  res.User.Name,
			NIK:   res.User.NIK,
			Email: res.User.Email,
		},
		"recognition_details": map[string]any{
			"nik":        res.NIK,
			"confidence": res.Confidence,
		},
		"flask_response": res.External,
	})
}
