package user

import (
	"time"
)

// Default users seeded into an empty store. They can never be deleted.
const (
	DefaultMe  = "me"
	DefaultYou = "you"
)

const MaxNameLength = 50

// User represents the users table / collection
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultNames lists the seed users in creation order.
func DefaultNames() []string {
	return []string{DefaultMe, DefaultYou}
}

// IsProtectedUser reports whether name is one of the seed users.
// The match is exact and case-sensitive.
func IsProtectedUser(name string) bool {
	return name == DefaultMe || name == DefaultYou
}
