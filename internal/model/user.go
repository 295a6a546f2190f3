// Package model defines the data structures used throughout the application.
package model

// User is a registered account.
//
// ID is supplied by the client at signup (or generated when omitted) and is the
// primary key. Email is unique. PasswordHash holds the bcrypt digest and is
// never serialized.
type User struct {
	ID           string `json:"id"    db:"id"`
	Name         string `json:"name"  db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-"     db:"password"`
}
