package domain

import "time"

// User is the domain model for a managed user account.
// Username is fixed at creation; Email, FirstName, LastName and Active are
// mutable through partial updates. CreatedAt is set once and UpdatedAt is
// refreshed on every mutation, so CreatedAt <= UpdatedAt always holds.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
