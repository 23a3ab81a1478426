// Package classifier turns a free-text user message plus budget context into
// a structured expense-or-answer decision via an external language model.
package classifier

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means no classifier credential is configured.
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrMalformed means the classifier responded but its payload failed to
	// parse or validate.
	ErrMalformed = errors.New("classifier response malformed")
)

// Decision is the structured output of a classification call.
type Decision struct {
	IsExpense    bool     `json:"is_expense"`
	Category     string   `json:"category,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
	Description  string   `json:"description,omitempty"`
	ReplyMessage string   `json:"reply_message"`
}

// Classifier is the capability injected into the chat orchestrator. It must
// fail fast on transport or parse problems; the orchestrator handles every
// failure uniformly.
type Classifier interface {
	Classify(ctx context.Context, systemContext, userText string) (*Decision, error)
}

// Disabled is the null classifier used when no credential is configured.
// Every call reports ErrUnavailable.
type Disabled struct{}

func (Disabled) Classify(context.Context, string, string) (*Decision, error) {
	return nil, ErrUnavailable
}

var _ Classifier = Disabled{}
