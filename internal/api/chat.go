package api

import (
	"net/http"

	"github.com/docsmith/docchat/internal/models"
)

func (s *Server) aiChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.auth.UserFromSession(r.Context(), req.SessionKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	answer, err := s.chat.Respond(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ChatResponse{Response: answer})
}
