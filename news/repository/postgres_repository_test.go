package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/newsroom/internal/database/postgres"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/news/models"
)

// newTestRepository connects to the database named by TEST_POSTGRES_*
// env vars and skips the test when they are absent.
func newTestRepository(t *testing.T) (NewsRepository, *postgres.Client) {
	t.Helper()

	host := os.Getenv("TEST_POSTGRES_HOST")
	if host == "" {
		t.Skip("TEST_POSTGRES_HOST not set, skipping database tests")
	}

	cfg := &platformconfig.PostgreSQLConfig{
		Host:     host,
		Port:     5432,
		Username: os.Getenv("TEST_POSTGRES_USERNAME"),
		Password: os.Getenv("TEST_POSTGRES_PASSWORD"),
		Database: os.Getenv("TEST_POSTGRES_DATABASE"),
		SSLMode:  "disable",
	}

	client, err := postgres.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewPostgresRepository(client), client
}

// seedOwner satisfies the news.owner_user_id foreign key.
func seedOwner(t *testing.T, client *postgres.Client) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)

	_, err = client.DB().ExecContext(context.Background(),
		`INSERT INTO users (id, email, password, first_name, last_name)
		 VALUES ($1, $2, 'x', 'Test', 'Owner')`,
		id, id.String()+"@example.com")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = client.DB().ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func seedNews(t *testing.T, repo NewsRepository, owner uuid.UUID, images ...string) *models.News {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)

	news := &models.News{
		ObjectId:    id,
		OwnerUserId: owner,
		Title:       "Integration test item",
		Images:      pq.StringArray(images),
	}
	require.NoError(t, repo.Create(context.Background(), news))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), id) })
	return news
}

func TestUpdateDetectsVersionConflict(t *testing.T) {
	repo, client := newTestRepository(t)
	ctx := context.Background()

	owner := seedOwner(t, client)
	news := seedNews(t, repo, owner)

	loaded, err := repo.FindByID(ctx, news.ObjectId)
	require.NoError(t, err)

	// First writer wins and bumps the version.
	loaded.Title = "first writer"
	require.NoError(t, repo.Update(ctx, loaded))

	// Second writer holds the stale version.
	stale := *news
	stale.Title = "second writer"
	err = repo.Update(ctx, &stale)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestFindByIDNotFound(t *testing.T) {
	repo, _ := newTestRepository(t)

	id, err := uuid.NewV4()
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListImageRefsFlattensArrays(t *testing.T) {
	repo, client := newTestRepository(t)
	ctx := context.Background()

	owner := seedOwner(t, client)
	seedNews(t, repo, owner, "news/x.png", "news/y.png")

	refs, err := repo.ListImageRefs(ctx)
	require.NoError(t, err)
	assert.Contains(t, refs, "news/x.png")
	assert.Contains(t, refs, "news/y.png")
}
