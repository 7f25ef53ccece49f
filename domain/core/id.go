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

// LoadID identifies one load cycle of a session. A result tagged with a
// LoadID other than the session's current one is stale.
type LoadID ID

// NewLoadID creates a fresh load identifier
func NewLoadID() LoadID { return LoadID(NewID()) }

func (id LoadID) String() string { return ID(id).String() }

// ParseLoadID parses a string into LoadID
func ParseLoadID(s string) (LoadID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("load ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("load ID %q is not a UUID: %w", s, err)
	}
	return LoadID(s), nil
}
