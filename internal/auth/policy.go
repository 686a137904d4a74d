package auth

// PolicyKind enumerates the access levels a route can declare.
type PolicyKind int

const (
	// PolicyPublic allows anonymous callers.
	PolicyPublic PolicyKind = iota
	// PolicyAuthenticated requires a valid token, any roles.
	PolicyAuthenticated
	// PolicyRoles requires a valid token holding at least one listed role.
	PolicyRoles
)

// Policy is the per-route access requirement, declared at registration time
// and evaluated uniformly by the guard.
type Policy struct {
	Kind  PolicyKind
	Roles []string
}

// Public returns the anonymous-access policy.
func Public() Policy {
	return Policy{Kind: PolicyPublic}
}

// Authenticated returns the any-valid-token policy.
func Authenticated() Policy {
	return Policy{Kind: PolicyAuthenticated}
}

// RequireRoles returns a policy satisfied by any one of the given roles.
func RequireRoles(roles ...string) Policy {
	return Policy{Kind: PolicyRoles, Roles: roles}
}
