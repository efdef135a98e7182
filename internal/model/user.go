package model

import "time"

// User represents the blog administrator as stored in the `users`
// table.  The system has a single admin; the record is created at
// provisioning time and only its profile and password change later.
//
// Fields:
//
//	ID        – primary key identifier of the user.
//	Username  – unique display name.
//	Firstname – optional first name.
//	Lastname  – optional last name.
//	Email     – unique email address, also the login name.
//	Password  – bcrypt hash, never the plaintext.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    `json:"id"`         // users.id
	Username  string    `json:"username"`   // users.username
	Firstname string    `json:"firstname"`  // users.firstname
	Lastname  string    `json:"lastname"`   // users.lastname
	Email     string    `json:"email"`      // users.email
	Password  string    `json:"-"`          // users.password
	CreatedAt time.Time `json:"created_at"` // users.created_at
	UpdatedAt time.Time `json:"updated_at"` // users.updated_at
}
