package permission

// Reserved role names. Every RoleSet built by NewRoleSet carries them as keys.
const (
	RolePublic   = "Public"
	RoleInternal = "Internal"
	RoleRemote   = "Remote"
	RoleDebug    = "Debug"

	// RoleApplication is carried by service-to-service tokens. A token holding
	// it skips ip binding and role membership checks; it must only be minted
	// with internal or remote-peer secrets.
	RoleApplication = "Application"
)

var reserved = [...]string{RolePublic, RoleInternal, RoleRemote, RoleDebug}

// RoleSet maps a role name to its membership flag.
type RoleSet map[string]bool

// NewRoleSet returns a RoleSet granting roles. Reserved roles that are not
// granted are present with value false.
func NewRoleSet(roles ...string) RoleSet {
	rs := make(RoleSet, len(reserved)+len(roles))
	for _, r := range reserved {
		rs[r] = false
	}
	for _, r := range roles {
		if r != "" {
			rs[r] = true
		}
	}
	return rs
}

// Allows reports whether role is present and true.
func (rs RoleSet) Allows(role string) bool {
	return rs[role]
}

// Clone returns an independent copy of rs.
func (rs RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}

// Permission is the role policy declared for one dispatchable method.
type Permission struct {
	Method string
	Roles  RoleSet
}

// New builds a Permission for method granting roles.
func New(method string, roles ...string) Permission {
	return Permission{Method: method, Roles: NewRoleSet(roles...)}
}

// Allows reports whether the permission admits role.
func (p Permission) Allows(role string) bool {
	return p.Roles.Allows(role)
}
