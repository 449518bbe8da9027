package engine

import (
	"time"

	"github.com/google/uuid"
)

// ContextType says why a calculation is running. It travels through every
// result for auditability and has no effect on the math itself.
type ContextType string

const (
	ContextInitial       ContextType = "initial"
	ContextOverride      ContextType = "override"
	ContextRecalculation ContextType = "recalculation"
	ContextDeletion      ContextType = "deletion"
)

// Context identifies a single calculation run.
type Context struct {
	ID        string      `json:"id"`
	Type      ContextType `json:"type"`
	UserID    string      `json:"userId"`
	Timestamp time.Time   `json:"timestamp"`
	Reason    string      `json:"reason,omitempty"`
	Debug     bool        `json:"debug,omitempty"`
}

// NewContext builds a Context with a fresh ID and the current time.
func NewContext(t ContextType, userID, reason string) Context {
	return Context{
		ID:        uuid.NewString(),
		Type:      t,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Reason:    reason,
	}
}
