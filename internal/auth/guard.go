package auth

import "github.com/heladeria/inventory-api/internal/core/domain"

// Authorize allows the caller when it holds at least one of the required
// roles. Required roles are alternatives, never a conjunction.
func Authorize(held domain.RoleSet, required ...domain.Role) error {
	if held.Intersects(domain.NewRoleSet(required...)) {
		return nil
	}
	return domain.ErrForbidden
}

// AuthorizeIdentity rejects a missing identity with ErrUnauthenticated before
// checking roles.
func AuthorizeIdentity(id *domain.Identity, required ...domain.Role) error {
	if id == nil {
		return domain.ErrUnauthenticated
	}
	return Authorize(id.Roles, required...)
}
