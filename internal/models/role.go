package models

// Role is a user's system-wide role.
type Role string

// Role constants, ordered from least to most privileged.
const (
	RoleMember Role = "member"
	RoleLead   Role = "lead"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLead, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
