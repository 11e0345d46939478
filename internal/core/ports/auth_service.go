package ports

import (
	"context"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// RegisterInput carries the fields of an administrative user registration.
type RegisterInput struct {
	Username string
	Password string
	Roles    domain.RoleSet
}

// AuthService authenticates callers over the session and token channels and
// resolves request credentials into an Identity.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	AuthenticateSession(ctx context.Context, username, password, previousSessionID string) (*domain.Session, *domain.User, error)
	AuthenticateToken(ctx context.Context, username, password string) (string, *domain.User, error)
	IssueToken(user *domain.User) (string, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string) (domain.Identity, error)
	ResolveToken(token string) (domain.Identity, error)
	UpdateRoles(ctx context.Context, userID int64, roles domain.RoleSet) (*domain.User, error)
}
