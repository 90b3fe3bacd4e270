package constants

// Roles
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"

	// Special role marker: any authenticated account
	RoleAny = "any"
)

// Role groups for convenience
var (
	AgentRoles = []string{RoleAgent, RoleAdmin}
	AdminRoles = []string{RoleAdmin}
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAgent || role == RoleAdmin
}
