package dto

import (
	"github.com/google/uuid"
)

type SearchRequest struct {
	Query  string `json:"query" validate:"required"`
	Scope  string `json:"scope,omitempty" validate:"omitempty,oneof=all public_only"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
	Offset int    `json:"offset,omitempty" validate:"omitempty,min=0"`
}

type SearchResultDTO struct {
	FragmentId uuid.UUID `json:"fragment_id"`
	DocumentId uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	Relevance  float64   `json:"relevance"`
	Bucket     string    `json:"bucket"`
}

type SearchResponse struct {
	Results []SearchResultDTO `json:"results"`
	Total   int               `json:"total"`
	Query   string            `json:"query"`
	Answer  *string           `json:"answer,omitempty"`
	LlmUsed *string           `json:"llm_used,omitempty"`
}
