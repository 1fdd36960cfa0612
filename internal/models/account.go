package models

import "time"

// Account is the public view of a registered user. It never carries the
// credential.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// User is the server-side record of an account, including its credential.
type User struct {
	ID         string
	Email      string
	Credential string
	CreatedAt  time.Time
}

func (u *User) Account() Account {
	return Account{ID: u.ID, Email: u.Email}
}
