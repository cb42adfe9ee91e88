package user

import "context"

// Repository persists users. Lookups return (nil, nil) when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetBySID(ctx context.Context, sid string) (*User, error)
	UpdateRole(ctx context.Context, userID uint, role Role) error
}
