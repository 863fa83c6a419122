package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// SkillID is a value object representing a unique skill identifier.
// Identifiers are opaque, stable, assigned at creation and never reused.
type SkillID struct {
	value string
}

// NewSkillID creates a new random SkillID
func NewSkillID() SkillID {
	return SkillID{value: uuid.New().String()}
}

// ParseSkillID creates a SkillID from an existing string
func ParseSkillID(id string) (SkillID, error) {
	if id == "" {
		return SkillID{}, errors.New("skill ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return SkillID{}, errors.New("skill ID must be a valid UUID")
	}
	return SkillID{value: id}, nil
}

// String returns the string representation of the SkillID
func (id SkillID) String() string {
	return id.value
}

// Equals checks if two SkillIDs are equal
func (id SkillID) Equals(other SkillID) bool {
	return id.value == other.value
}

// IsZero checks if the SkillID is the zero value
func (id SkillID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id SkillID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *SkillID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("SkillID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
