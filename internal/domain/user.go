package domain

import (
	"fmt"
	"time"
)

// Role enumerates who a user is. The zero value is not a valid role.
type Role uint8

const (
	RoleClient Role = iota + 1
	RoleOperator
)

var roleNames = map[Role]string{
	RoleClient:   "client",
	RoleOperator: "operator",
}

// ParseRole converts the wire/persisted form into a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is a client or operator of the support desk. Users are created once
// and never mutated.
type User struct {
	ID        int64
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
