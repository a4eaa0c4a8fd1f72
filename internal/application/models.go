package application

import "time"

// User is a registered account as exposed by the application services. The
// password hash never leaves the credential path.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// UserCredentials pairs a user with its stored password hash.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// RegisterUserParams carries the fields submitted by the sign-up form.
type RegisterUserParams struct {
	UserID   string
	Password string
	Name     string
	Email    string
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	UserID   string
	Password string
}
