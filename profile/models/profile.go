package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Profile represents a user profile over the users table. Avatar holds
// a single storage reference ("avatars/<filename>") or is empty.
type Profile struct {
	ObjectId   uuid.UUID `json:"objectId" db:"id"`
	Email      string    `json:"email" db:"email"`
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

// UpdateProfileRequest represents the request payload for updating a
// profile. Nil fields are left untouched (PATCH merge). The avatar is
// managed through its own endpoints, never through this request.
type UpdateProfileRequest struct {
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	SocialLink *string `json:"socialLink,omitempty"`
}

// ProfileResponse represents the API response for a profile
type ProfileResponse struct {
	ObjectId   string `json:"objectId"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Bio        string `json:"bio"`
	SocialLink string `json:"socialLink"`
	Avatar     string `json:"avatar"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// ToResponse converts a Profile into its API representation.
func (p *Profile) ToResponse(publicRoute string) ProfileResponse {
	resp := ProfileResponse{
		ObjectId:   p.ObjectId.String(),
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Phone:      p.Phone,
		Bio:        p.Bio,
		SocialLink: p.SocialLink,
		Avatar:     p.Avatar,
		CreatedAt:  p.CreatedAt.Unix(),
		UpdatedAt:  p.UpdatedAt.Unix(),
	}
	if p.Avatar != "" {
		resp.AvatarURL = publicRoute + "/" + p.Avatar
	}
	return resp
}
