package identity

// Role defines what a user can do within their brand. Roles are a fixed
// hierarchy rather than configurable permission sets; platform-wide powers
// are carried by the separate PlatformAdmin flag on the user.
type Role string

const (
	RoleOwner  Role = "owner"  // Full control, including plan changes
	RoleAdmin  Role = "admin"  // Manage users, certificates, partnerships
	RoleMember Role = "member" // Create and manage certificates and media
	RoleViewer Role = "viewer" // Read-only access
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// IsValid reports whether the role is one of the known values
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether this role ranks at or above the other role
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// CanManageUsers reports whether the role may invite, update, or deactivate
// other users in the brand
func (r Role) CanManageUsers() bool {
	return r.AtLeast(RoleAdmin)
}

// CanWrite reports whether the role may create or modify brand resources
func (r Role) CanWrite() bool {
	return r.AtLeast(RoleMember)
}
