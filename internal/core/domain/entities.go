package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin            Role = "Admin"
	RoleHead             Role = "Head"
	RoleDateEntryOfficer Role = "Date Entry Officer"
	RoleSecretary        Role = "Secretary"
	RoleStaff            Role = "Staff"
)

// Roles lists every role, highest privilege first.
var Roles = []Role{RoleAdmin, RoleHead, RoleDateEntryOfficer, RoleSecretary, RoleStaff}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// SeedAdminUsername is the account created at startup. It cannot be
// deleted, renamed, re-roled or deactivated.
const SeedAdminUsername = "admin"

// User represents a portal account
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	Password  string    `json:"-"` // Hashed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSeedAdmin reports whether u is the protected startup admin.
func (u *User) IsSeedAdmin() bool {
	return u != nil && u.Username == SeedAdminUsername
}

// Actor returns the identity u acts as.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Actor is the authenticated caller an operation is performed for.
type Actor struct {
	UserID   string
	Username string
	Role     Role
}

// Session represents an authenticated login bound to an access token
type Session struct {
	ID        string
	UserID    string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked reports whether the session was torn down by logout.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// RecoveryToken is issued by the forgot-password flow.
type RecoveryToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
