package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"

	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/internal/types"
	"github.com/qolzam/newsroom/profile/errors"
	"github.com/qolzam/newsroom/profile/models"
	"github.com/qolzam/newsroom/profile/services"
	"github.com/qolzam/newsroom/profile/validation"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// avatarField is the multipart field the avatar arrives under.
const avatarField = "avatar"

// ProfileHandler handles all profile-related HTTP requests
type ProfileHandler struct {
	profileService services.ProfileService
	config         *platformconfig.Config
}

// NewProfileHandler creates a new ProfileHandler with injected dependencies
func NewProfileHandler(profileService services.ProfileService, cfg *platformconfig.Config) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		config:         cfg,
	}
}

// GetMyProfile handles retrieving the caller's own profile
func (h *ProfileHandler) GetMyProfile(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	profile, err := h.profileService.GetProfile(c.Context(), user.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(profile.ToResponse(h.config.Uploads.PublicRoute))
}

// GetProfile handles retrieving a profile by user id
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := uuid.FromString(c.Params("userId"))
	if err != nil {
		return errors.HandleUUIDError(c, "userId")
	}

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(profile.ToResponse(h.config.Uploads.PublicRoute))
}

// UpdateMyProfile handles a JSON patch of the caller's profile fields
func (h *ProfileHandler) UpdateMyProfile(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if err := validation.ValidateUpdateProfileRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	profile, err := h.profileService.UpdateProfile(c.Context(), user.UserID, &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(profile.ToResponse(h.config.Uploads.PublicRoute))
}

// SetAvatar handles replacing the caller's avatar with an uploaded file
func (h *ProfileHandler) SetAvatar(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	upload, err := h.readAvatar(c)
	if err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}
	if upload == nil {
		return errors.HandleInvalidRequestError(c, "An avatar file is required")
	}

	profile, err := h.profileService.SetAvatar(c.Context(), user.UserID, upload)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(profile.ToResponse(h.config.Uploads.PublicRoute))
}

// ClearAvatar handles removing the caller's avatar
func (h *ProfileHandler) ClearAvatar(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	profile, err := h.profileService.ClearAvatar(c.Context(), user.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(profile.ToResponse(h.config.Uploads.PublicRoute))
}

// readAvatar reads the single multipart file under the avatar field.
// A missing multipart body or field yields a nil upload.
func (h *ProfileHandler) readAvatar(c *fiber.Ctx) (*storageModels.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File[avatarField]
	if len(files) == 0 {
		return nil, nil
	}

	fileHeader := files[0]
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &storageModels.Upload{
		Field:        avatarField,
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
	}, nil
}
