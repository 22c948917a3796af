package entity

// ScopeHint is the caller-supplied preference narrowing which buckets to
// search. It is always intersected with the caller's authorized set and
// can never widen it.
type ScopeHint string

const (
	ScopeHintAll        ScopeHint = "all"
	ScopeHintPublicOnly ScopeHint = "public_only"
)

func (s ScopeHint) IsValid() bool {
	return s == ScopeHintAll || s == ScopeHintPublicOnly
}

// SearchQuery is the normalized, validated search input. Text has already
// been trimmed and checked non-empty by the service boundary.
type SearchQuery struct {
	Text   string
	Scope  ScopeHint
	Limit  int
	Offset int
}

const DefaultSearchLimit = 50
