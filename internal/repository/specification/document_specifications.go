package specification

import (
	"doc-knowledge-be/internal/entity"

	"gorm.io/gorm"
)

// ByBuckets restricts rows to the given visibility buckets.
type ByBuckets struct {
	Buckets []entity.Bucket
}

func (s ByBuckets) Apply(db *gorm.DB) *gorm.DB {
	names := make([]string, len(s.Buckets))
	for i, b := range s.Buckets {
		names[i] = string(b)
	}
	return db.Where("bucket IN ?", names)
}
