package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/gorilla/schema"

	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/internal/types"
	"github.com/qolzam/newsroom/news/errors"
	"github.com/qolzam/newsroom/news/models"
	"github.com/qolzam/newsroom/news/services"
	"github.com/qolzam/newsroom/news/validation"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// imagesField is the multipart field news images arrive under.
const imagesField = "images"

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// NewsHandler handles all news-related HTTP requests
type NewsHandler struct {
	newsService services.NewsService
	config      *platformconfig.Config
}

// NewNewsHandler creates a new NewsHandler with injected dependencies
func NewNewsHandler(newsService services.NewsService, cfg *platformconfig.Config) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
		config:      cfg,
	}
}

// CreateNews handles news creation from a multipart form. Up to five
// files may arrive under the "images" field.
func (h *NewsHandler) CreateNews(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	req := models.CreateNewsRequest{
		Title:   c.FormValue("title"),
		Excerpt: c.FormValue("excerpt"),
		Body:    c.FormValue("body"),
	}

	if err := validation.ValidateCreateNewsRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	uploads, err := h.readUploads(c, imagesField)
	if err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}

	news, err := h.newsService.CreateNews(c.Context(), user.UserID, &req, uploads)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"objectId": news.ObjectId.String(),
	})
}

// GetNews handles retrieving a single news item
func (h *NewsHandler) GetNews(c *fiber.Ctx) error {
	newsID, err := uuid.FromString(c.Params("newsId"))
	if err != nil {
		return errors.HandleUUIDError(c, "newsId")
	}

	news, err := h.newsService.GetNews(c.Context(), newsID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(news.ToResponse(h.config.Uploads.PublicRoute))
}

// QueryNews handles listing news with query filters
func (h *NewsHandler) QueryNews(c *fiber.Ctx) error {
	filter, err := h.decodeFilter(c)
	if err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid query parameters")
	}

	if err := validation.ValidateQueryFilter(filter); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	response, err := h.newsService.ListNews(c.Context(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(response)
}

// QueryNewsByUser handles listing news owned by a given user
func (h *NewsHandler) QueryNewsByUser(c *fiber.Ctx) error {
	userID, err := uuid.FromString(c.Params("userId"))
	if err != nil {
		return errors.HandleUUIDError(c, "userId")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	response, err := h.newsService.ListNewsByUser(c.Context(), userID, page, limit)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(response)
}

// UpdateNews handles a JSON patch of news fields
func (h *NewsHandler) UpdateNews(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	newsID, err := uuid.FromString(c.Params("newsId"))
	if err != nil {
		return errors.HandleUUIDError(c, "newsId")
	}

	var req models.UpdateNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if err := validation.ValidateUpdateNewsRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	news, err := h.newsService.UpdateNews(c.Context(), user.UserID, newsID, &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(news.ToResponse(h.config.Uploads.PublicRoute))
}

// AddImages handles attaching uploaded images to a news item
func (h *NewsHandler) AddImages(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	newsID, err := uuid.FromString(c.Params("newsId"))
	if err != nil {
		return errors.HandleUUIDError(c, "newsId")
	}

	uploads, err := h.readUploads(c, imagesField)
	if err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}
	if len(uploads) == 0 {
		return errors.HandleInvalidRequestError(c, "At least one file is required")
	}

	news, err := h.newsService.AddImages(c.Context(), user.UserID, newsID, uploads)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(news.ToResponse(h.config.Uploads.PublicRoute))
}

// RemoveImage handles detaching one image from a news item. The route
// carries the bare filename; the canonical storage reference is built
// here at the boundary.
func (h *NewsHandler) RemoveImage(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	newsID, err := uuid.FromString(c.Params("newsId"))
	if err != nil {
		return errors.HandleUUIDError(c, "newsId")
	}

	filename, err := url.PathUnescape(c.Params("filename"))
	if err != nil || filename == "" {
		return errors.HandleInvalidRequestError(c, "Invalid filename")
	}
	ref := "news/" + filename

	news, err := h.newsService.RemoveImage(c.Context(), user.UserID, newsID, ref)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(news.ToResponse(h.config.Uploads.PublicRoute))
}

// DeleteNews handles deleting a news item and its files
func (h *NewsHandler) DeleteNews(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	newsID, err := uuid.FromString(c.Params("newsId"))
	if err != nil {
		return errors.HandleUUIDError(c, "newsId")
	}

	if err := h.newsService.DeleteNews(c.Context(), user.UserID, newsID); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "News deleted"})
}

// decodeFilter maps query parameters onto the filter struct
func (h *NewsHandler) decodeFilter(c *fiber.Ctx) (*models.NewsQueryFilter, error) {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})

	filter := &models.NewsQueryFilter{}
	if err := queryDecoder.Decode(filter, values); err != nil {
		return nil, err
	}
	return filter, nil
}

// readUploads drains the multipart files under field into Upload values
func (h *NewsHandler) readUploads(c *fiber.Ctx, field string) ([]*storageModels.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body means no uploads.
		return nil, nil
	}

	files := form.File[field]
	uploads := make([]*storageModels.Upload, 0, len(files))
	for _, fileHeader := range files {
		upload, err := readUpload(field, fileHeader)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func readUpload(field string, fileHeader *multipart.FileHeader) (*storageModels.Upload, error) {
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
		Field:        field,
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
	}, nil
}
