package models

import "time"

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Superuser    bool       `json:"superuser"`
	Roles        []string   `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
	DisabledAt   *time.Time `json:"disabled_at,omitempty"`
}

// IsActive returns true if the user account is not disabled.
func (u *User) IsActive() bool {
	return u.DisabledAt == nil
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Can reports whether the user holds the given "resource:action" permission
// through any of its roles. Superusers hold every permission.
func (u *User) Can(permission string) bool {
	if u.Superuser {
		return true
	}
	for _, role := range u.Roles {
		for _, p := range RolePermissions[role] {
			if p == permission {
				return true
			}
		}
	}
	return false
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// RolePermissions maps each role to the permissions it grants.
// Resolution happens at check time so role changes take effect immediately.
var RolePermissions = map[string][]string{
	string(RoleAdmin): {
		"lines:read", "lines:create",
		"history:read", "history:write",
		"offices:create", "enterprises:create",
		"grants:create", "users:create",
	},
	string(RoleOperator): {
		"lines:read", "lines:create",
		"history:read", "history:write",
	},
	string(RoleViewer): {
		"lines:read",
		"history:read",
	},
}

type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    time.Time  `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// IsRevoked returns true if the session has been revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// Office is the organizational scope lines and access grants are partitioned
// by. AdminID names the designated administrator who sees every line in the
// office regardless of grants.
type Office struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Line is a phone line belonging to an office. Listings are ordered by name.
type Line struct {
	ID        string    `json:"id"`
	OfficeID  string    `json:"office_id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// ResourceKindLine is the resource kind name used in access grants for lines.
const ResourceKindLine = "line"

// AccessGrant ties a user to a specific resource within an office with a
// permission level. Level zero means the grant is revoked and confers
// nothing; visibility requires a non-zero level.
type AccessGrant struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	OfficeID     string    `json:"office_id"`
	ResourceKind string    `json:"resource_kind"`
	ResourceID   string    `json:"resource_id"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
}

// Enterprise is a customer account. History records of all four kinds hang
// off an enterprise.
type Enterprise struct {
	ID        string    `json:"id"`
	OfficeID  string    `json:"office_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
