package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is a single independently assignable permission tag.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// AllRoles lists every known role in a stable order.
var AllRoles = []Role{RoleAdmin, RoleStaff, RoleCustomer}

func (r Role) bit() RoleSet {
	switch r {
	case RoleAdmin:
		return 1 << 0
	case RoleStaff:
		return 1 << 1
	case RoleCustomer:
		return 1 << 2
	}
	return 0
}

// ParseRole converts a role name to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if r.bit() == 0 {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
	return r, nil
}

// RoleSet is the set of roles held by a user. Roles are not mutually
// exclusive: a user may hold none, one, or all of them.
type RoleSet uint8

// NewRoleSet builds a set from the given roles. Unknown roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= r.bit()
	}
	return s
}

// RoleSetFromFlags builds a set from the three persisted boolean flags.
func RoleSetFromFlags(isAdmin, isStaff, isCustomer bool) RoleSet {
	var s RoleSet
	if isAdmin {
		s |= RoleAdmin.bit()
	}
	if isStaff {
		s |= RoleStaff.bit()
	}
	if isCustomer {
		s |= RoleCustomer.bit()
	}
	return s
}

func (s RoleSet) Has(r Role) bool { return r.bit() != 0 && s&r.bit() != 0 }

func (s RoleSet) With(r Role) RoleSet { return s | r.bit() }

func (s RoleSet) Without(r Role) RoleSet { return s &^ r.bit() }

func (s RoleSet) IsEmpty() bool { return s == 0 }

// Intersects reports whether s and other share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool { return s&other != 0 }

// Roles returns the members of the set in AllRoles order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Flags returns the admin, staff and customer membership bits.
func (s RoleSet) Flags() (isAdmin, isStaff, isCustomer bool) {
	return s.Has(RoleAdmin), s.Has(RoleStaff), s.Has(RoleCustomer)
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Roles())
}

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	var out RoleSet
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return err
		}
		out = out.With(r)
	}
	*s = out
	return nil
}

// User models an account in the credential store.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        RoleSet   `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}
