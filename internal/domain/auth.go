package domain

// DefaultRole is granted to accounts registered without explicit roles.
const DefaultRole = "USER"

// IdentityRecord is the result of an identity lookup used at login.
type IdentityRecord struct {
	Subject      string
	PasswordHash string
	Roles        []string
}
