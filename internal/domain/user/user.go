// Package user holds the slice of the user aggregate the billing engine
// needs: identity, contact email, and the role derived from subscription
// status.
package user

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleTraveler   Role = "traveler"
	RoleSubscriber Role = "subscriber"
	RolePublisher  Role = "publisher"
	RoleAdmin      Role = "admin"
)

type User struct {
	id        uint
	sid       string
	email     string
	name      string
	role      Role
	createdAt time.Time
	updatedAt time.Time
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(id uint, sid, email, name string, role Role, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == "" {
		return nil, fmt.Errorf("user email is required")
	}
	return &User{
		id:        id,
		sid:       sid,
		email:     email,
		name:      name,
		role:      role,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (u *User) ID() uint             { return u.id }
func (u *User) SID() string          { return u.sid }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) Role() Role           { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// SetRole changes the user's derived role. Admin roles are never recomputed
// from subscription state.
func (u *User) SetRole(role Role) {
	if u.role == RoleAdmin {
		return
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
}
