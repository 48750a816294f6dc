package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/internal/types"
	"github.com/qolzam/newsroom/news/models"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// MockNewsService is a mock implementation of NewsService for handler tests
type MockNewsService struct {
	mock.Mock
}

func (m *MockNewsService) CreateNews(ctx context.Context, principalID uuid.UUID, req *models.CreateNewsRequest, uploads []*storageModels.Upload) (*models.News, error) {
	args := m.Called(ctx, principalID, req, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) UpdateNews(ctx context.Context, principalID, id uuid.UUID, patch *models.UpdateNewsRequest) (*models.News, error) {
	args := m.Called(ctx, principalID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) AddImages(ctx context.Context, principalID, id uuid.UUID, uploads []*storageModels.Upload) (*models.News, error) {
	args := m.Called(ctx, principalID, id, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) RemoveImage(ctx context.Context, principalID, id uuid.UUID, ref string) (*models.News, error) {
	args := m.Called(ctx, principalID, id, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) DeleteNews(ctx context.Context, principalID, id uuid.UUID) error {
	args := m.Called(ctx, principalID, id)
	return args.Error(0)
}

func (m *MockNewsService) GetNews(ctx context.Context, id uuid.UUID) (*models.News, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) ListNews(ctx context.Context, filter *models.NewsQueryFilter) (*models.NewsListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsListResponse), args.Error(1)
}

func (m *MockNewsService) ListNewsByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*models.NewsListResponse, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsListResponse), args.Error(1)
}

func testHandlerConfig() *platformconfig.Config {
	return &platformconfig.Config{
		Uploads: platformconfig.UploadsConfig{
			PublicRoute:      "/uploads",
			MaxFileSizeMB:    5,
			MaxImagesPerNews: 5,
		},
	}
}

// newTestApp wires the handler behind a stub auth middleware that
// injects the given user context.
func newTestApp(svc *MockNewsService, user *types.UserContext) *fiber.App {
	app := fiber.New()
	handler := NewNewsHandler(svc, testHandlerConfig())

	if user != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(types.UserCtxName, *user)
			return c.Next()
		})
	}

	app.Get("/news", handler.QueryNews)
	app.Get("/news/user/:userId", handler.QueryNewsByUser)
	app.Post("/news", handler.CreateNews)
	app.Put("/news/:newsId", handler.UpdateNews)
	app.Post("/news/:newsId/images", handler.AddImages)
	app.Delete("/news/:newsId/images/:filename", handler.RemoveImage)
	app.Delete("/news/:newsId", handler.DeleteNews)
	app.Get("/news/:newsId", handler.GetNews)
	return app
}

func testUser() *types.UserContext {
	id, _ := uuid.NewV4()
	return &types.UserContext{UserID: id, Email: "reporter@example.com"}
}

func sampleNews(owner uuid.UUID) *models.News {
	id, _ := uuid.NewV4()
	return &models.News{
		ObjectId:    id,
		OwnerUserId: owner,
		Title:       "Title",
		Images:      pq.StringArray{"news/a.png"},
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileField string, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range filenames {
		part, err := writer.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateNewsHandlerReturns201(t *testing.T) {
	svc := new(MockNewsService)
	user := testUser()
	app := newTestApp(svc, user)

	item := sampleNews(user.UserID)
	svc.On("CreateNews", mock.Anything, user.UserID, mock.MatchedBy(func(req *models.CreateNewsRequest) bool {
		return req.Title == "Breaking"
	}), mock.Anything).Return(item, nil)

	body, contentType := multipartBody(t, map[string]string{"title": "Breaking"}, "images", "a.png")
	req := httptest.NewRequest(http.MethodPost, "/news", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, item.ObjectId.String(), result["objectId"])
	svc.AssertExpectations(t)
}

func TestCreateNewsHandlerRejectsMissingTitle(t *testing.T) {
	svc := new(MockNewsService)
	app := newTestApp(svc, testUser())

	body, contentType := multipartBody(t, map[string]string{"body": "text"}, "images")
	req := httptest.NewRequest(http.MethodPost, "/news", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "CreateNews", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetNewsHandlerReturnsItem(t *testing.T) {
	svc := new(MockNewsService)
	app := newTestApp(svc, nil)

	item := sampleNews(uuid.Must(uuid.NewV4()))
	svc.On("GetNews", mock.Anything, item.ObjectId).Return(item, nil)

	req := httptest.NewRequest(http.MethodGet, "/news/"+item.ObjectId.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var response models.NewsResponse
	require.NoError(t, json.Unmarshal(data, &response))
	assert.Equal(t, []string{"/uploads/news/a.png"}, response.ImageURLs)
}

func TestGetNewsHandlerRejectsBadUUID(t *testing.T) {
	svc := new(MockNewsService)
	app := newTestApp(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/news/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoveImageHandlerBuildsCanonicalRef(t *testing.T) {
	svc := new(MockNewsService)
	user := testUser()
	app := newTestApp(svc, user)

	item := sampleNews(user.UserID)
	svc.On("RemoveImage", mock.Anything, user.UserID, item.ObjectId, "news/images-123.png").Return(item, nil)

	req := httptest.NewRequest(http.MethodDelete, "/news/"+item.ObjectId.String()+"/images/images-123.png", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestQueryNewsHandlerDecodesFilter(t *testing.T) {
	svc := new(MockNewsService)
	app := newTestApp(svc, nil)

	svc.On("ListNews", mock.Anything, mock.MatchedBy(func(f *models.NewsQueryFilter) bool {
		return f.Page == 2 && f.Limit == 10 && f.Search == "launch"
	})).Return(&models.NewsListResponse{Page: 2, Limit: 10}, nil)

	req := httptest.NewRequest(http.MethodGet, "/news?page=2&limit=10&search=launch", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestDeleteNewsHandlerRequiresUserContext(t *testing.T) {
	svc := new(MockNewsService)
	app := newTestApp(svc, nil)

	id, _ := uuid.NewV4()
	req := httptest.NewRequest(http.MethodDelete, "/news/"+id.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	svc.AssertNotCalled(t, "DeleteNews", mock.Anything, mock.Anything, mock.Anything)
}
