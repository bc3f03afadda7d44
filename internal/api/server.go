// Package api exposes the HTTP surface: auth, uploads, conversations, and
// the chat endpoint itself.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/docsmith/docchat/internal/services"
)

type Server struct {
	auth          *services.AuthService
	uploads       *services.UploadService
	conversations *services.ConversationService
	chat          *services.ChatService
	log           *slog.Logger
}

func NewServer(
	auth *services.AuthService,
	uploads *services.UploadService,
	conversations *services.ConversationService,
	chat *services.ChatService,
	log *slog.Logger,
) *Server {
	return &Server{
		auth:          auth,
		uploads:       uploads,
		conversations: conversations,
		chat:          chat,
		log:           log.With("component", "api"),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)
	r.Get("/userfromsession/{sessionKey}", s.userFromSession)

	r.Post("/upload", s.uploadFile)
	r.Get("/uploads", s.listUploads)
	r.Delete("/uploads/{uploadId}", s.deleteUpload)
	r.Get("/uploads/{uploadId}/url", s.uploadDownloadURL)

	r.Post("/conversations", s.createConversation)
	r.Get("/conversations", s.listConversations)
	r.Patch("/conversations/{conversationId}", s.patchConversation)
	r.Get("/conversations/{conversationId}/messages", s.listMessages)

	r.Post("/ai-chat", s.aiChat)

	r.Get("/api/health", s.health)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
