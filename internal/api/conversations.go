package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docsmith/docchat/internal/models"
)

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.auth.UserFromSession(r.Context(), req.SessionKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	conv, err := s.conversations.Create(r.Context(), user.UserID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.UserFromSession(r.Context(), r.URL.Query().Get("sessionKey"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	convs, err := s.conversations.List(r.Context(), user.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (s *Server) patchConversation(w http.ResponseWriter, r *http.Request) {
	var req models.PatchConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.auth.UserFromSession(r.Context(), req.SessionKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	conv, err := s.conversations.Patch(r.Context(), user.UserID, chi.URLParam(r, "conversationId"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.UserFromSession(r.Context(), r.URL.Query().Get("sessionKey"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	msgs, err := s.conversations.Messages(r.Context(), user.UserID, chi.URLParam(r, "conversationId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
