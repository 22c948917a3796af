package entity

import (
	"time"

	"github.com/google/uuid"
)

// Bucket is the visibility classification attached to a document and its
// fragments. It is a closed enumeration: retrieval is gated on membership
// in the caller's authorized bucket set, never on display logic.
type Bucket string

const (
	BucketPublic       Bucket = "public"
	BucketConfidential Bucket = "confidential"
)

// AllBuckets returns every known bucket.
func AllBuckets() []Bucket {
	return []Bucket{BucketPublic, BucketConfidential}
}

func (b Bucket) IsValid() bool {
	switch b {
	case BucketPublic, BucketConfidential:
		return true
	}
	return false
}

type Document struct {
	Id        uuid.UUID
	Filename  string
	Bucket    Bucket
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fragment is a retrievable excerpt of a document, the atomic unit of a
// search result. Relevance is in [0,1] and full precision is preserved
// end to end.
type Fragment struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Filename   string
	Content    string
	Relevance  float64
	Bucket     Bucket
}
