package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docsmith/docchat/internal/models"
)

const maxUploadSize = 50 << 20 // 50MB

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large (max 50MB)")
		return
	}

	user, err := s.auth.UserFromSession(r.Context(), r.FormValue("sessionKey"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rec, err := s.uploads.Accept(r.Context(), user.UserID, header.Filename, contentType, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.UploadResponse{
		Message:      "File uploaded successfully",
		UploadID:     rec.UploadID,
		FileName:     rec.FileName,
		OriginalName: rec.OriginalName,
		SizeBytes:    rec.SizeBytes,
		MimeType:     rec.MimeType,
		PresignedURL: rec.PresignedURL,
	})
}

func (s *Server) listUploads(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.UserFromSession(r.Context(), r.URL.Query().Get("sessionKey"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	recs, err := s.uploads.List(r.Context(), user.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) deleteUpload(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.UserFromSession(r.Context(), r.URL.Query().Get("sessionKey"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := s.uploads.Delete(r.Context(), user.UserID, chi.URLParam(r, "uploadId")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Upload deleted"})
}

func (s *Server) uploadDownloadURL(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.UserFromSession(r.Context(), r.URL.Query().Get("sessionKey"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	url, err := s.uploads.DownloadURL(r.Context(), user.UserID, chi.URLParam(r, "uploadId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
