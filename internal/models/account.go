package models

import "time"

// Account is an authentication credential document keyed by email. Profile
// data lives in the role-specific collections; this only carries what the
// sign-in flow needs.
type Account struct {
	Email        string     `bson:"_id" json:"email"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	Role         Role       `bson:"role" json:"role"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	LastLoginAt  *time.Time `bson:"lastLoginAt" json:"lastLoginAt,omitempty"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the resolved user.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int64         `json:"expires_in"`
	User        DirectoryUser `json:"user"`
}
