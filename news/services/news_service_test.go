package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/newsroom/internal/attachments"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	newsErrors "github.com/qolzam/newsroom/news/errors"
	"github.com/qolzam/newsroom/news/models"
	"github.com/qolzam/newsroom/news/repository"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

func testConfig() *platformconfig.Config {
	return &platformconfig.Config{
		Uploads: platformconfig.UploadsConfig{
			Dir:              "./uploads",
			PublicRoute:      "/uploads",
			MaxFileSizeMB:    5,
			AllowedMimeTypes: []string{"image/png"},
			MaxImagesPerNews: 5,
		},
	}
}

func newTestService(repo repository.NewsRepository, blobStore *MockBlobStore) NewsService {
	return NewNewsService(repo, blobStore, nil, testConfig())
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)
	return id
}

func testUpload(name string) *storageModels.Upload {
	return &storageModels.Upload{
		Field:        "images",
		OriginalName: name,
		ContentType:  "image/png",
		Data:         []byte("png"),
	}
}

func storedBlobs(refs ...string) []*storageModels.StoredBlob {
	blobs := make([]*storageModels.StoredBlob, len(refs))
	for i, ref := range refs {
		blobs[i] = &storageModels.StoredBlob{Ref: ref, Filename: ref[len("news/"):], Size: 3}
	}
	return blobs
}

func newsItem(owner uuid.UUID, images ...string) *models.News {
	id, _ := uuid.NewV4()
	return &models.News{
		ObjectId:    id,
		OwnerUserId: owner,
		Title:       "Title",
		Excerpt:     "Excerpt",
		Body:        "Body",
		Images:      pq.StringArray(images),
		Version:     1,
	}
}

func TestCreateNewsStoresFilesBeforeSave(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)

	uploads := []*storageModels.Upload{testUpload("a.png"), testUpload("b.png")}
	blobStore.On("StoreBatch", mock.Anything, "news", uploads).
		Return(storedBlobs("news/a-1.png", "news/b-1.png"), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.News")).Return(nil)

	news, err := svc.CreateNews(context.Background(), owner, &models.CreateNewsRequest{Title: "T"}, uploads)
	require.NoError(t, err)
	assert.Equal(t, owner, news.OwnerUserId)
	assert.Equal(t, pq.StringArray{"news/a-1.png", "news/b-1.png"}, news.Images)
	repo.AssertExpectations(t)
	blobStore.AssertExpectations(t)
}

func TestCreateNewsRollsBackFilesWhenSaveFails(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)

	uploads := []*storageModels.Upload{testUpload("a.png")}
	blobStore.On("StoreBatch", mock.Anything, "news", uploads).
		Return(storedBlobs("news/a-1.png"), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	blobStore.On("Remove", mock.Anything, "news/a-1.png").Return(nil)

	_, err := svc.CreateNews(context.Background(), mustUUID(t), &models.CreateNewsRequest{Title: "T"}, uploads)
	require.Error(t, err)
	blobStore.AssertExpectations(t)
}

func TestCreateNewsRejectsTooManyImages(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)

	uploads := make([]*storageModels.Upload, 6)
	for i := range uploads {
		uploads[i] = testUpload("x.png")
	}

	_, err := svc.CreateNews(context.Background(), mustUUID(t), &models.CreateNewsRequest{Title: "T"}, uploads)
	assert.ErrorIs(t, err, attachments.ErrLimitExceeded)
	blobStore.AssertNotCalled(t, "StoreBatch", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateNewsMergesOnlyProvidedFields(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/keep.png")

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(n *models.News) bool {
		return n.Title == "New title" && n.Excerpt == "Excerpt" && len(n.Images) == 1
	})).Return(nil)

	title := "New title"
	updated, err := svc.UpdateNews(context.Background(), owner, item.ObjectId, &models.UpdateNewsRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	repo.AssertExpectations(t)
}

func TestUpdateNewsForbiddenHasNoSideEffects(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	item := newsItem(mustUUID(t))

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)

	title := "hijack"
	_, err := svc.UpdateNews(context.Background(), mustUUID(t), item.ObjectId, &models.UpdateNewsRequest{Title: &title})
	assert.ErrorIs(t, err, newsErrors.ErrNewsOwnershipRequired)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateNewsNotFound(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)

	id := mustUUID(t)
	repo.On("FindByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	title := "x"
	_, err := svc.UpdateNews(context.Background(), mustUUID(t), id, &models.UpdateNewsRequest{Title: &title})
	assert.ErrorIs(t, err, newsErrors.ErrNewsNotFound)
}

func TestAddImagesAppendsInOrder(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/old.png")

	uploads := []*storageModels.Upload{testUpload("a.png"), testUpload("b.png")}
	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)
	blobStore.On("StoreBatch", mock.Anything, "news", uploads).
		Return(storedBlobs("news/a-1.png", "news/b-1.png"), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.AddImages(context.Background(), owner, item.ObjectId, uploads)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"news/old.png", "news/a-1.png", "news/b-1.png"}, updated.Images)
}

func TestAddImagesRejectsBatchOverflow(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/1.png", "news/2.png", "news/3.png", "news/4.png")

	uploads := []*storageModels.Upload{testUpload("a.png"), testUpload("b.png")}
	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)

	_, err := svc.AddImages(context.Background(), owner, item.ObjectId, uploads)
	require.Error(t, err)
	assert.ErrorIs(t, err, attachments.ErrLimitExceeded)

	var limitErr *attachments.LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 4, limitErr.Current)
	assert.Equal(t, 2, limitErr.Incoming)

	// Rejection happens before any file reaches the store.
	blobStore.AssertNotCalled(t, "StoreBatch", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddImagesRetriesOnVersionConflict(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	first := newsItem(owner, "news/old.png")
	second := newsItem(owner, "news/old.png", "news/winner.png")
	second.ObjectId = first.ObjectId

	uploads := []*storageModels.Upload{testUpload("a.png")}

	repo.On("FindByID", mock.Anything, first.ObjectId).Return(first, nil).Once()
	repo.On("FindByID", mock.Anything, first.ObjectId).Return(second, nil).Once()
	blobStore.On("StoreBatch", mock.Anything, "news", uploads).
		Return(storedBlobs("news/a-1.png"), nil).Once()
	blobStore.On("StoreBatch", mock.Anything, "news", uploads).
		Return(storedBlobs("news/a-2.png"), nil).Once()

	// First save loses the race; its file is rolled back before re-reading.
	repo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict).Once()
	blobStore.On("Remove", mock.Anything, "news/a-1.png").Return(nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := svc.AddImages(context.Background(), owner, first.ObjectId, uploads)
	require.NoError(t, err)
	assert.Contains(t, updated.Images, "news/winner.png")
	assert.Contains(t, updated.Images, "news/a-2.png")
	repo.AssertExpectations(t)
	blobStore.AssertExpectations(t)
}

func TestAddImagesGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner)

	uploads := []*storageModels.Upload{testUpload("a.png")}

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil).Times(3)
	blobStore.On("StoreBatch", mock.Anything, "news", uploads).
		Return(storedBlobs("news/a-1.png"), nil).Times(3)
	repo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict).Times(3)
	blobStore.On("Remove", mock.Anything, "news/a-1.png").Return(nil).Times(3)

	_, err := svc.AddImages(context.Background(), owner, item.ObjectId, uploads)
	assert.ErrorIs(t, err, newsErrors.ErrConflict)
	blobStore.AssertExpectations(t)
}

func TestRemoveImageDetachesThenDeletesFile(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/a.png", "news/b.png")

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(n *models.News) bool {
		return len(n.Images) == 1 && n.Images[0] == "news/b.png"
	})).Return(nil)
	blobStore.On("Remove", mock.Anything, "news/a.png").Return(nil)

	updated, err := svc.RemoveImage(context.Background(), owner, item.ObjectId, "news/a.png")
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"news/b.png"}, updated.Images)
	repo.AssertExpectations(t)
	blobStore.AssertExpectations(t)
}

func TestRemoveImageSecondCallReportsNotFound(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/b.png")

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)

	_, err := svc.RemoveImage(context.Background(), owner, item.ObjectId, "news/a.png")
	assert.ErrorIs(t, err, newsErrors.ErrImageNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	blobStore.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestRemoveImageSwallowsFileDeleteFailure(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/a.png")

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	blobStore.On("Remove", mock.Anything, "news/a.png").Return(errors.New("io error"))

	updated, err := svc.RemoveImage(context.Background(), owner, item.ObjectId, "news/a.png")
	require.NoError(t, err)
	assert.Empty(t, updated.Images)
}

func TestDeleteNewsRemovesMetadataBeforeFiles(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/a.png", "news/b.png")

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)
	repo.On("Delete", mock.Anything, item.ObjectId).Return(nil)
	blobStore.On("Remove", mock.Anything, "news/a.png").Return(nil)
	blobStore.On("Remove", mock.Anything, "news/b.png").Return(errors.New("io error"))

	// The file delete failure is swallowed; the janitor reconciles.
	require.NoError(t, svc.DeleteNews(context.Background(), owner, item.ObjectId))
	repo.AssertExpectations(t)
	blobStore.AssertExpectations(t)
}

func TestDeleteNewsForbiddenHasNoSideEffects(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	item := newsItem(mustUUID(t), "news/a.png")

	repo.On("FindByID", mock.Anything, item.ObjectId).Return(item, nil)

	err := svc.DeleteNews(context.Background(), mustUUID(t), item.ObjectId)
	assert.ErrorIs(t, err, newsErrors.ErrNewsOwnershipRequired)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	blobStore.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestGetNewsNotFound(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)

	id := mustUUID(t)
	repo.On("FindByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := svc.GetNews(context.Background(), id)
	assert.ErrorIs(t, err, newsErrors.ErrNewsNotFound)
}

func TestListNewsBuildsImageURLs(t *testing.T) {
	repo := new(MockNewsRepository)
	blobStore := new(MockBlobStore)
	svc := newTestService(repo, blobStore)
	owner := mustUUID(t)
	item := newsItem(owner, "news/a.png")

	repo.On("Find", mock.Anything, mock.Anything, 20, 0).Return([]*models.News{item}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	resp, err := svc.ListNews(context.Background(), &models.NewsQueryFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, resp.News, 1)
	assert.Equal(t, []string{"/uploads/news/a.png"}, resp.News[0].ImageURLs)
	assert.Equal(t, int64(1), resp.TotalCount)
	assert.False(t, resp.HasMore)
}
