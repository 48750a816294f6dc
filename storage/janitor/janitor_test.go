package janitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/storage/provider"
)

type staticRefs struct {
	refs []string
}

func (s *staticRefs) ListBlobRefs(ctx context.Context) ([]string, error) {
	return s.refs, nil
}

func janitorConfig(grace time.Duration) *platformconfig.JanitorConfig {
	return &platformconfig.JanitorConfig{
		Enabled:  true,
		Interval: time.Hour,
		GraceAge: grace,
	}
}

func backdate(t *testing.T, p *provider.DiskProvider, key string, age time.Duration) {
	t.Helper()
	path := filepath.Join(p.Root(), filepath.FromSlash(key))
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestSweepRemovesOldOrphans(t *testing.T) {
	p, err := provider.NewDiskProvider(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.Put(ctx, "news/kept.png", []byte("1")))
	require.NoError(t, p.Put(ctx, "news/orphan.png", []byte("2")))
	backdate(t, p, "news/kept.png", 48*time.Hour)
	backdate(t, p, "news/orphan.png", 48*time.Hour)

	j := New(p, "news", &staticRefs{refs: []string{"news/kept.png"}}, janitorConfig(24*time.Hour))

	removed, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	exists, err := p.Exists(ctx, "news/kept.png")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = p.Exists(ctx, "news/orphan.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSweepSkipsYoungOrphans(t *testing.T) {
	p, err := provider.NewDiskProvider(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	// Fresh orphan; its metadata save may still be in flight.
	require.NoError(t, p.Put(ctx, "news/fresh.png", []byte("1")))

	j := New(p, "news", &staticRefs{}, janitorConfig(24*time.Hour))

	removed, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	exists, err := p.Exists(ctx, "news/fresh.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSweepOnlyTouchesItsKind(t *testing.T) {
	p, err := provider.NewDiskProvider(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.Put(ctx, "avatars/other.png", []byte("1")))
	backdate(t, p, "avatars/other.png", 48*time.Hour)

	j := New(p, "news", &staticRefs{}, janitorConfig(24*time.Hour))

	removed, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	exists, err := p.Exists(ctx, "avatars/other.png")
	require.NoError(t, err)
	assert.True(t, exists)
}
