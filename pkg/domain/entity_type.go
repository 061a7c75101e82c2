package domain

import (
	dErrors "lobbyreg/pkg/domain-errors"
)

// EntityType categorizes who a compliance record is attached to.
type EntityType string

const (
	EntityLobbyist    EntityType = "lobbyist"
	EntityEmployer    EntityType = "employer"
	EntityBoardMember EntityType = "board_member"
)

// ParseEntityType creates an EntityType from a string, validating it.
func ParseEntityType(s string) (EntityType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "entity type cannot be empty")
	}
	t := EntityType(s)
	if !t.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid entity type %q", s)
	}
	return t, nil
}

// IsValid checks if the entity type is one of the supported enum values.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityLobbyist, EntityEmployer, EntityBoardMember:
		return true
	}
	return false
}

func (t EntityType) String() string {
	return string(t)
}
