package kernel

import (
	"strings"

	"ordering/internal/pkg/errs"
)

// Role is the capability level carried by an authenticated caller.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Principal is the identity of whoever invokes a lifecycle operation. The
// zero value is an anonymous caller.
type Principal struct {
	id    string
	email string
	role  Role
}

// NewPrincipal builds a caller identity from verified token claims.
// Unknown roles degrade to RoleCustomer.
func NewPrincipal(id, email string, role Role) (Principal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Principal{}, errs.NewValueIsRequiredError("principal id")
	}
	if role != RoleAdmin {
		role = RoleCustomer
	}
	return Principal{id: id, email: strings.TrimSpace(email), role: role}, nil
}

func (p Principal) ID() string {
	return p.id
}

func (p Principal) Email() string {
	return p.email
}

func (p Principal) Role() Role {
	return p.role
}

func (p Principal) IsAdmin() bool {
	return p.role == RoleAdmin
}

// IsAuthenticated reports whether the principal was built from a verified identity.
func (p Principal) IsAuthenticated() bool {
	return p.id != ""
}
