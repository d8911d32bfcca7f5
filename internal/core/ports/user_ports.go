package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups return nil, nil when no
// row matches.
type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user domain.NewUser) (uuid.UUID, error)
	// FindByEmail and FindByID only return active users.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// FindCredentialsByEmail ignores the active flag and fills PasswordHash.
	FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, error)
}
