package compose

import (
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/pkg/retrieval/scope"
)

// Composer filters and paginates raw engine output. The engine already
// gates on buckets in SQL, but the composer re-checks membership so a
// misconfigured engine can never leak an out-of-scope fragment.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Result is the composed page plus the total before truncation.
type Result struct {
	Fragments []*entity.Fragment
	Total     int
}

// Compose drops fragments outside the authorized set, preserves the
// engine's relative order (relevance-descending, ties keep input order),
// and truncates to limit starting at offset. Total counts the filtered
// list before truncation. An empty outcome is valid, not an error.
func (c *Composer) Compose(raw []*entity.Fragment, authorized []entity.Bucket, limit, offset int) Result {
	filtered := make([]*entity.Fragment, 0, len(raw))
	for _, f := range raw {
		if scope.Contains(authorized, f.Bucket) {
			filtered = append(filtered, f)
		}
	}

	total := len(filtered)

	if offset >= total {
		return Result{Fragments: []*entity.Fragment{}, Total: total}
	}

	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	return Result{Fragments: filtered[offset:end], Total: total}
}
