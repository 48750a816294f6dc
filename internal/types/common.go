package types

import (
	uuid "github.com/gofrs/uuid"
)

// HTTP Header Constants
const (
	HeaderUID           = "uid"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "

	// UserCtxName is the fiber.Locals key holding the authenticated UserContext.
	UserCtxName = "user"

	// ClaimKey is the JWT claim key holding the user payload.
	ClaimKey = "claim"
)

// UserContext carries the authenticated principal through the request.
// It is resolved once by the JWT middleware and passed explicitly into
// services; services never read tokens themselves.
type UserContext struct {
	UserID      uuid.UUID `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	CreatedDate int64     `json:"createdDate"`
}
