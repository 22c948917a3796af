package specification

import "gorm.io/gorm"

// ByEmail filters users by exact email
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// SearchTerm filters users by email or full name substring
type SearchTerm struct {
	Term string
}

func (s SearchTerm) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Term + "%"
	return db.Where("email ILIKE ? OR full_name ILIKE ?", pattern, pattern)
}
