// Package user handles accounts and authentication: registration with a
// verification step, password login, and federated login against an
// external identity provider.
package user

import "time"

// User maps to the users table. Accounts start deactivated; only the
// verification step (or a federated login with a verified email) flips
// Activated. PasswordHash is nil for accounts provisioned by federation.
type User struct {
	ID                     int64      `db:"id" json:"id"`
	Name                   string     `db:"name" json:"name"`
	Email                  string     `db:"email" json:"email"`
	PhoneNumber            *string    `db:"phone_number" json:"phone_number,omitempty"`
	Activated              bool       `db:"activated" json:"activated"`
	PasswordHash           *string    `db:"password_hash" json:"-"`
	HashedVerificationCode *int32     `db:"hashed_verification_code" json:"-"`
	ProfilePicture         *string    `db:"profile_picture" json:"profile_picture,omitempty"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt              *time.Time `db:"deleted_at" json:"-"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// LoginInput is the password-login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyInput is the account-verification payload.
type VerifyInput struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// FederatedInput carries an ID token issued by the external provider.
type FederatedInput struct {
	IDToken string `json:"id_token"`
}

// TokenResponse is returned by both login endpoints.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
