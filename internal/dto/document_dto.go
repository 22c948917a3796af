package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	Filename string                 `json:"filename" validate:"required"`
	Content  string                 `json:"content" validate:"required"`
	Bucket   string                 `json:"bucket" validate:"required,oneof=public confidential"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type DocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Bucket    string    `json:"bucket"`
	CreatedAt time.Time `json:"created_at"`
}

// PublishEmbedDocumentMessage is the payload placed on the in-process bus
// to request (re)embedding of a document's fragments.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
