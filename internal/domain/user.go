package domain

import "time"

// User represents a registered account. Grade is the employee tier that keys
// the daily budget table; grade 0 is the administrative tier.
type User struct {
	ID             string
	Email          string
	FullName       string
	HashedPassword string
	Grade          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user holds the administrative grade.
func (u User) IsAdmin() bool {
	return u.Grade == 0
}
