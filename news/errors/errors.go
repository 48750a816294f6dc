package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/newsroom/internal/attachments"
	"github.com/qolzam/newsroom/internal/ownership"
	storageErrors "github.com/qolzam/newsroom/storage/errors"
)

// News service specific errors
var (
	ErrNewsNotFound          = errors.New("news not found")
	ErrImageNotFound         = errors.New("image not found")
	ErrNewsOwnershipRequired = errors.New("news ownership required")
	ErrConflict              = errors.New("news was modified concurrently, please retry")
	ErrInvalidUserContext    = errors.New("invalid user context")
)

// Error codes
const (
	CodeNewsNotFound     = "NEWS_NOT_FOUND"
	CodeImageNotFound    = "IMAGE_NOT_FOUND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeConflict         = "CONFLICT"
	CodeLimitExceeded    = "ATTACHMENT_LIMIT_EXCEEDED"
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
	case errors.Is(err, ErrNewsNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeNewsNotFound,
			Message: "News not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrImageNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeImageNotFound,
			Message: "Image not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrNewsOwnershipRequired), errors.Is(err, ownership.ErrNotOwner):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePermissionDenied,
			Message: "News ownership required",
			Details: err.Error(),
		})
	case errors.Is(err, attachments.ErrLimitExceeded):
		// The message carries current and incoming counts.
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeLimitExceeded,
			Message: err.Error(),
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
func HandleValidationError(c *fiber.Ctx, message string, details ...string) error {
	response := ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(http.StatusBadRequest).JSON(response)
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
