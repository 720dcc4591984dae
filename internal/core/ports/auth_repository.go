package ports

import (
	"context"

	"github.com/bookline/booking-system/internal/core/domain"
)

// AuthRepository defines the interface for user account persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists a new user; a duplicate email returns domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
