package identity

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleClient:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the acting identity resolved by the authentication layer.
// DisplayName is the name shown in schedules for client-made bookings.
type Actor struct {
	ID          uuid.UUID
	Role        Role
	DisplayName string
}

// Policy decides whether an actor may perform administrator actions. Injected
// so tests can simulate several administrators without a global constant.
type Policy interface {
	IsAdmin(actor Actor) bool
}

type RolePolicy struct{}

func NewRolePolicy() Policy {
	return &RolePolicy{}
}

func (p *RolePolicy) IsAdmin(actor Actor) bool {
	return actor.Role == RoleAdmin
}
