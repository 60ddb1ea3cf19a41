package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"sor/internal/domain/document"
	"sor/pkg/errors"
)

const maxUploadBytes = 10 << 20 // 10 MB

// UploadDocument accepts a text or CSV file, extracts its content, and
// stores it as project evidence. PDF and other binary formats are rejected.
func (h *Handlers) UploadDocument(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if _, err := h.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "invalid multipart upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "file field is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !isSupportedDocumentType(header.Filename, contentType) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{
			Error: "only plain text, markdown, and CSV files are supported",
		})
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errors.Wrap(err, "read upload"))
		return
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "file contains no extractable text"))
		return
	}

	doc := document.New(projectID, header.Filename, contentType, text)
	if err := h.documents.Create(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// ListDocuments returns a project's uploaded documents, newest first.
func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if _, err := h.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}

	docs, err := h.documents.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// DeleteDocument removes an uploaded document.
func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), r.PathValue("docID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func isSupportedDocumentType(filename, contentType string) bool {
	switch {
	case strings.HasPrefix(contentType, "text/"):
		return true
	case contentType == "application/csv":
		return true
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".csv":
		return true
	}
	return false
}
