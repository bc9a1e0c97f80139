package entities

import "time"

// Account is the stored credential record behind a User
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToUser returns the public identity of the account
func (a *Account) ToUser() *User {
	return &User{
		UID:         a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
	}
}
