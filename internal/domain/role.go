package domain

// Role is the coarse permission class assigned to an account by the backend.
type Role string

const (
	RoleMuseum     Role = "museum"
	RoleIndividual Role = "individual"
)

// ParseRole maps a raw role value to a known Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleMuseum:
		return RoleMuseum, true
	case RoleIndividual:
		return RoleIndividual, true
	}
	return "", false
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}
