package users

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PasswordResetToken is a single-use token mailed to the user. Expired or
// used tokens are rejected on confirm.
type PasswordResetToken struct {
	Token     string
	UserID    int
	ExpiresAt time.Time
	Used      bool
}
