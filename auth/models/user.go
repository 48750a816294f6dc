package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// User represents an account row in the users table. Password holds
// the bcrypt hash and never leaves this package in responses.
type User struct {
	ObjectId   uuid.UUID `json:"objectId" db:"id"`
	Email      string    `json:"email" db:"email"`
	Password   string    `json:"-" db:"password"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	Phone      string    `json:"phone" db:"phone"`
	Bio        string    `json:"bio" db:"bio"`
	SocialLink string    `json:"socialLink" db:"social_link"`
	Avatar     string    `json:"avatar" db:"avatar"`

	Version int64 `json:"version" db:"version"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// DisplayName is the name carried in token claims.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SignupRequest represents the request payload for account creation
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest represents the request payload for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries a freshly issued token and its subject.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// AuthResponse represents the API response for signup and login
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   int64        `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ObjectId    string `json:"objectId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	CreatedAt   int64  `json:"createdAt"`
}

// ToResponse converts an AuthResult into its API representation.
func (r *AuthResult) ToResponse() AuthResponse {
	return AuthResponse{
		AccessToken: r.Token,
		TokenType:   "Bearer",
		ExpiresAt:   r.ExpiresAt.Unix(),
		User: UserResponse{
			ObjectId:    r.User.ObjectId.String(),
			Email:       r.User.Email,
			DisplayName: r.User.DisplayName(),
			Avatar:      r.User.Avatar,
			CreatedAt:   r.User.CreatedAt.Unix(),
		},
	}
}
