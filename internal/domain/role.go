package domain

// Role is the closed set of roles an identity can hold. Stored as a plain
// string attribute; unknown values unmarshal but fail Valid().
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Authorities maps a role to the capability labels embedded in issued tokens.
// Resolved at issuance time; the authorization layer matches on these labels
// rather than on the role name itself.
func (r Role) Authorities() []string {
	switch r {
	case RoleAdmin:
		return []string{"identity:read", "identity:write", "users:manage"}
	case RoleUser:
		return []string{"identity:read", "identity:write"}
	default:
		return nil
	}
}
