// Package domain holds typed identifiers and small enums shared by every
// vertical. Typed UUIDs keep a ViolationID from being passed where an
// AppealID is expected.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// EntityID identifies a regulated entity (lobbyist, employer, board member).
	EntityID uuid.UUID
	// ViolationID identifies an issued compliance violation.
	ViolationID uuid.UUID
	// AppealID identifies an appeal filed against a violation.
	AppealID uuid.UUID
	// ActivityID identifies a single logged lobbying activity entry.
	ActivityID uuid.UUID
)

func NewEntityID() EntityID       { return EntityID(uuid.New()) }
func NewViolationID() ViolationID { return ViolationID(uuid.New()) }
func NewAppealID() AppealID       { return AppealID(uuid.New()) }
func NewActivityID() ActivityID   { return ActivityID(uuid.New()) }

func (id EntityID) String() string    { return uuid.UUID(id).String() }
func (id ViolationID) String() string { return uuid.UUID(id).String() }
func (id AppealID) String() string    { return uuid.UUID(id).String() }
func (id ActivityID) String() string  { return uuid.UUID(id).String() }

func (id EntityID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ViolationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AppealID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ActivityID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func ParseEntityID(s string) (EntityID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return EntityID{}, fmt.Errorf("parse entity id: %w", err)
	}
	return EntityID(u), nil
}

func ParseViolationID(s string) (ViolationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ViolationID{}, fmt.Errorf("parse violation id: %w", err)
	}
	return ViolationID(u), nil
}

func ParseAppealID(s string) (AppealID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AppealID{}, fmt.Errorf("parse appeal id: %w", err)
	}
	return AppealID(u), nil
}

// MarshalText implementations keep JSON shapes as plain UUID strings.
func (id EntityID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ViolationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id AppealID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ActivityID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *EntityID) UnmarshalText(b []byte) error {
	parsed, err := ParseEntityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ViolationID) UnmarshalText(b []byte) error {
	parsed, err := ParseViolationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AppealID) UnmarshalText(b []byte) error {
	parsed, err := ParseAppealID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ActivityID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return fmt.Errorf("parse activity id: %w", err)
	}
	*id = ActivityID(u)
	return nil
}
