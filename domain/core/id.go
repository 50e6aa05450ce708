package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 generation fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	TrialID ID
	RunID   ID
)

func (id TrialID) String() string { return ID(id).String() }
func (id RunID) String() string   { return ID(id).String() }

func (id TrialID) IsEmpty() bool { return ID(id).IsEmpty() }
func (id RunID) IsEmpty() bool   { return ID(id).IsEmpty() }

// NewTrialID creates a fresh trial identifier
func NewTrialID() TrialID { return TrialID(NewID()) }

// NewRunID creates a fresh run identifier
func NewRunID() RunID { return RunID(NewID()) }

// ParseTrialID parses a string into TrialID
func ParseTrialID(s string) (TrialID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("trial ID cannot be empty")
	}
	return TrialID(s), nil
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}
