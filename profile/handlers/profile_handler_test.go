package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/internal/types"
	profileErrors "github.com/qolzam/newsroom/profile/errors"
	"github.com/qolzam/newsroom/profile/models"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// MockProfileService is a mock implementation of ProfileService for handler tests
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, principalID uuid.UUID, patch *models.UpdateProfileRequest) (*models.Profile, error) {
	args := m.Called(ctx, principalID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) SetAvatar(ctx context.Context, principalID uuid.UUID, upload *storageModels.Upload) (*models.Profile, error) {
	args := m.Called(ctx, principalID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) ClearAvatar(ctx context.Context, principalID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func testHandlerConfig() *platformconfig.Config {
	return &platformconfig.Config{
		Uploads: platformconfig.UploadsConfig{
			PublicRoute:   "/uploads",
			MaxFileSizeMB: 5,
		},
	}
}

// newTestApp wires the handler behind a stub auth middleware that
// injects the given user context.
func newTestApp(svc *MockProfileService, user *types.UserContext) *fiber.App {
	app := fiber.New()
	handler := NewProfileHandler(svc, testHandlerConfig())

	if user != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(types.UserCtxName, *user)
			return c.Next()
		})
	}

	app.Get("/profile/my", handler.GetMyProfile)
	app.Put("/profile/my", handler.UpdateMyProfile)
	app.Put("/profile/my/avatar", handler.SetAvatar)
	app.Delete("/profile/my/avatar", handler.ClearAvatar)
	app.Get("/profile/:userId", handler.GetProfile)
	return app
}

func testUser() *types.UserContext {
	id, _ := uuid.NewV4()
	return &types.UserContext{UserID: id, Email: "reporter@example.com"}
}

func sampleProfile(id uuid.UUID, avatar string) *models.Profile {
	return &models.Profile{
		ObjectId:  id,
		Email:     "reporter@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Avatar:    avatar,
	}
}

func avatarBody(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("avatar", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestSetAvatarHandlerReturnsAvatarURL(t *testing.T) {
	svc := new(MockProfileService)
	user := testUser()
	app := newTestApp(svc, user)

	svc.On("SetAvatar", mock.Anything, user.UserID, mock.MatchedBy(func(u *storageModels.Upload) bool {
		return u.Field == "avatar" && u.OriginalName == "me.png"
	})).Return(sampleProfile(user.UserID, "avatars/avatar-1.png"), nil)

	body, contentType := avatarBody(t, "me.png")
	req := httptest.NewRequest(http.MethodPut, "/profile/my/avatar", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var response models.ProfileResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.Equal(t, "/uploads/avatars/avatar-1.png", response.AvatarURL)
	svc.AssertExpectations(t)
}

func TestSetAvatarHandlerRejectsMissingFile(t *testing.T) {
	svc := new(MockProfileService)
	app := newTestApp(svc, testUser())

	body, contentType := avatarBody(t)
	req := httptest.NewRequest(http.MethodPut, "/profile/my/avatar", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "SetAvatar", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMyProfileHandlerPatchesFields(t *testing.T) {
	svc := new(MockProfileService)
	user := testUser()
	app := newTestApp(svc, user)

	svc.On("UpdateProfile", mock.Anything, user.UserID, mock.MatchedBy(func(req *models.UpdateProfileRequest) bool {
		return req.Bio != nil && *req.Bio == "New bio" && req.FirstName == nil
	})).Return(sampleProfile(user.UserID, ""), nil)

	payload := bytes.NewBufferString(`{"bio":"New bio"}`)
	req := httptest.NewRequest(http.MethodPut, "/profile/my", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestUpdateMyProfileHandlerRejectsEmptyPatch(t *testing.T) {
	svc := new(MockProfileService)
	app := newTestApp(svc, testUser())

	req := httptest.NewRequest(http.MethodPut, "/profile/my", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProfileHandlerNotFound(t *testing.T) {
	svc := new(MockProfileService)
	app := newTestApp(svc, nil)

	id, _ := uuid.NewV4()
	svc.On("GetProfile", mock.Anything, id).Return(nil, profileErrors.ErrProfileNotFound)

	req := httptest.NewRequest(http.MethodGet, "/profile/"+id.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetProfileHandlerRejectsBadUUID(t *testing.T) {
	svc := new(MockProfileService)
	app := newTestApp(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClearAvatarHandlerRequiresUserContext(t *testing.T) {
	svc := new(MockProfileService)
	app := newTestApp(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/profile/my/avatar", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	svc.AssertNotCalled(t, "ClearAvatar", mock.Anything, mock.Anything)
}
