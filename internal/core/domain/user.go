package domain

// AuthProvider identifies how an operator account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User is an operator account of the admin dashboard.
type User struct {
	UserID         string       `json:"userID" db:"user_id"`
	Email          string       `json:"email" db:"email"`
	Name           string       `json:"name" db:"name"`
	PasswordHash   string       `json:"-" db:"password_hash"`
	AuthProvider   AuthProvider `json:"authProvider" db:"auth_provider"`
	ProviderUserID *string      `json:"-" db:"provider_user_id"`
	AuditFields
}

// GoogleUserInfo is the profile returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Actor identifies who performed a mutation, for audit trails.
type Actor struct {
	UserID string `json:"uid,omitempty"`
	Email  string `json:"email,omitempty"`
}
