package scope

import (
	"doc-knowledge-be/internal/entity"
)

// Resolver computes the authorized bucket set for a caller. It is a pure
// function of role and scope hint; resolution happens before the retrieval
// engine runs and the composer re-checks membership afterwards.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the buckets the caller is allowed to search. The scope
// hint is intersected with the caller's rights and can never widen them:
// a regular user asking for "all" is silently narrowed to public.
func (r *Resolver) Resolve(principal entity.Principal, hint entity.ScopeHint) []entity.Bucket {
	if principal.Anonymous || !principal.Role.IsElevated() {
		return []entity.Bucket{entity.BucketPublic}
	}

	if hint == entity.ScopeHintPublicOnly {
		// Explicit narrowing requested despite elevated rights.
		return []entity.Bucket{entity.BucketPublic}
	}

	return entity.AllBuckets()
}

// Contains reports membership of a bucket in an authorized set.
func Contains(authorized []entity.Bucket, b entity.Bucket) bool {
	for _, a := range authorized {
		if a == b {
			return true
		}
	}
	return false
}
