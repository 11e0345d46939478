package ports

import (
	"context"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// UserRepository is the credential store. Username uniqueness is enforced by
// the storage layer; Create returns domain.ErrUserExists on a duplicate and
// never overwrites the existing record.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetRoles(ctx context.Context, id int64, roles domain.RoleSet) error
}
