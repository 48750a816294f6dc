package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	storageErrors "github.com/qolzam/newsroom/storage/errors"
)

// Profile service specific errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoAvatarSet     = errors.New("no avatar set")
	ErrConflict        = errors.New("profile was modified concurrently, please retry")
)

// Error codes
const (
	CodeProfileNotFound  = "PROFILE_NOT_FOUND"
	CodeNoAvatarSet      = "NO_AVATAR_SET"
	CodeConflict         = "CONFLICT"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidUUID      = "INVALID_UUID"
	CodeMissingContext   = "MISSING_USER_CONTEXT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError maps service errors to HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrProfileNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeProfileNotFound,
			Message: "Profile not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrNoAvatarSet):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeNoAvatarSet,
			Message: "No avatar set",
			Details: err.Error(),
		})
	case errors.Is(err, storageErrors.ErrUnsupportedMediaType):
		return c.Status(http.StatusUnsupportedMediaType).JSON(ErrorResponse{
			Code:    CodeUnsupportedMedia,
			Message: "Unsupported file type",
			Details: err.Error(),
		})
	case errors.Is(err, storageErrors.ErrPayloadTooLarge):
		return c.Status(http.StatusRequestEntityTooLarge).JSON(ErrorResponse{
			Code:    CodePayloadTooLarge,
			Message: "File too large",
			Details: err.Error(),
		})
	case errors.Is(err, ErrConflict):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeConflict,
			Message: "Concurrent modification, please retry",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	})
}

// HandleUserContextError handles user context errors with 401 Unauthorized
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Code:    CodeMissingContext,
		Message: message,
		Details: message,
	})
}

// HandleInvalidRequestError handles invalid request errors with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}

// HandleUUIDError handles UUID parsing errors with 400 Bad Request
func HandleUUIDError(c *fiber.Ctx, fieldName string) error {
	message := "Invalid " + fieldName + " format"
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidUUID,
		Message: message,
		Details: message,
	})
}
