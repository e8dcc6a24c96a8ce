package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

type acceptInvitationResponse struct {
	Status   string       `json:"status"`
	Calendar calendarView `json:"calendar"`
}

const (
	acceptStatusAccepted      = "accepted"
	acceptStatusAlreadyHelper = "already_helper"
)

func (h *Handler) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIdentity(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	// The token may arrive in the JSON body or, for link-style accepts,
	// as a query parameter with an empty body.
	var req acceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get("token"))
	}
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invitation token is required"})
		return
	}
	result, err := h.service.AcceptInvitation(r.Context(), token, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	status := acceptStatusAccepted
	if result.AlreadyHelper {
		status = acceptStatusAlreadyHelper
	}
	writeJSON(w, http.StatusOK, acceptInvitationResponse{
		Status:   status,
		Calendar: toCalendarView(result.Calendar),
	})
}
