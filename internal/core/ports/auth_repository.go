package ports

import (
	"context"

	"github.com/officina/workshop-system/internal/core/domain"
)

// AuthRepository stores back-office operators.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
