package domain

import "time"

// Admin is a platform administrator. Holding a record is what authorizes the principal.
type Admin struct {
	AdminID      string    `json:"adminID"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TokenVersion int       `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
