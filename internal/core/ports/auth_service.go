package ports

import (
	"context"

	"github.com/govtech/attendance-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, role, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, email, name, role string) (*domain.User, error)
}
