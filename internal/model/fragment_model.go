package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Fragment stores a chunk of a document together with its embedding.
// The bucket column is denormalized from the owning document so the
// retrieval query can gate on it without a join.
type Fragment struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content    string          `gorm:"type:text;not null"`
	Bucket     string          `gorm:"type:varchar(50);not null;index"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimensionality
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (Fragment) TableName() string {
	return "fragments"
}
