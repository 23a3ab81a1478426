package domain

import "time"

// Chat is one message in a user's conversation history. IsSupport marks
// assistant-originated replies. Records are append-only.
type Chat struct {
	ID        string
	OwnerID   string
	Message   string
	IsSupport bool
	Timestamp time.Time
}
