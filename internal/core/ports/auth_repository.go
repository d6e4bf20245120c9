package ports

import (
	"context"

	"github.com/govtech/attendance-system/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
type AuthRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists on a
	// duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByEmail looks a user up by normalized (lowercase) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateProfile sets the mutable profile fields (name, role).
	UpdateProfile(ctx context.Context, email, name, role string) (*domain.User, error)
}
