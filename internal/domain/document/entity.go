package document

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded evidence file with its extracted text. Only the
// extracted text travels into agent context; the raw bytes are not kept.
type Document struct {
	ID            string    `json:"id" db:"id"`
	ProjectID     string    `json:"project_id" db:"project_id"`
	Filename      string    `json:"filename" db:"filename"`
	ContentType   string    `json:"content_type" db:"content_type"`
	ExtractedText string    `json:"extracted_text" db:"extracted_text"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// New creates a document with a short identifier.
func New(projectID, filename, contentType, extractedText string) *Document {
	return &Document{
		ID:            strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		ProjectID:     projectID,
		Filename:      filename,
		ContentType:   contentType,
		ExtractedText: extractedText,
		CreatedAt:     time.Now().UTC(),
	}
}
