package domain

import "time"

// User is the domain model for registered accounts. Email is the stable
// subject asserted by issued tokens.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// Identity projects the user onto the record consumed by login.
func (u *User) Identity() *IdentityRecord {
	if u == nil {
		return nil
	}
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return &IdentityRecord{Subject: u.Email, PasswordHash: u.PasswordHash, Roles: roles}
}
