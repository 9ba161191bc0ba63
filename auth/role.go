package auth

// Principal is the authenticated identity derived from a verified
// token for the duration of one request. Role carries the raw token
// string; classification against the configured identifiers happens in
// the authorizer, not at verification time.
type Principal struct {
	Username string
	Role     string
}

// Role is the classification of a principal's role string against the
// configured identifiers.
type Role int

const (
	// RoleUnknown covers every role string outside the two configured
	// identifiers. Unknown roles are denied unconditionally.
	RoleUnknown Role = iota
	RoleAdministrator
	RoleStandardUser
)

// Roles holds the two configured role identifiers.
type Roles struct {
	Admin string
	User  string
}

// Classify maps a token role string onto the closed role set.
func (r Roles) Classify(role string) Role {
	switch role {
	case r.Admin:
		return RoleAdministrator
	case r.User:
		return RoleStandardUser
	default:
		return RoleUnknown
	}
}
