package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/newsroom/internal/database/postgres"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
)

// newTestRepository connects to the database named by TEST_POSTGRES_*
// env vars and skips the test when they are absent.
func newTestRepository(t *testing.T) (ProfileRepository, *postgres.Client) {
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

func seedUser(t *testing.T, client *postgres.Client, avatar string) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)

	_, err = client.DB().ExecContext(context.Background(),
		`INSERT INTO users (id, email, password, first_name, last_name, avatar)
		 VALUES ($1, $2, 'x', 'Test', 'User', $3)`,
		id, id.String()+"@example.com", avatar)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = client.DB().ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func TestUpdateDetectsVersionConflict(t *testing.T) {
	repo, client := newTestRepository(t)
	ctx := context.Background()

	id := seedUser(t, client, "")

	loaded, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	stale := *loaded

	// First writer wins and bumps the version.
	loaded.Bio = "first writer"
	require.NoError(t, repo.Update(ctx, loaded))

	// Second writer holds the stale version.
	stale.Bio = "second writer"
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

func TestListAvatarRefsSkipsEmpty(t *testing.T) {
	repo, client := newTestRepository(t)
	ctx := context.Background()

	seedUser(t, client, "avatars/a.png")
	seedUser(t, client, "")

	refs, err := repo.ListAvatarRefs(ctx)
	require.NoError(t, err)
	assert.Contains(t, refs, "avatars/a.png")
	for _, ref := range refs {
		assert.NotEmpty(t, ref)
	}
}
