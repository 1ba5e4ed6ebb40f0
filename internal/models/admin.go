package models

import "time"

// Admin is the admins row.
type Admin struct {
	AdminID      string    `db:"admin_id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
}

// Credential is the projection of any principal table used for sign-in.
type Credential struct {
	PrincipalID  string `db:"principal_id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	TokenVersion int    `db:"token_version"`
}
