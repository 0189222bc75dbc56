package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
)

func openTemp(t *testing.T) (*KVRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	repo, err := Open(context.Background(), path)
	require.NoError(t, err)
	return repo, path
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTemp(t)
	defer repo.Close()

	_, err := repo.Get(ctx, "s1/analysisHistory")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "s1/analysisHistory", []byte(`[{"id":"1"}]`)))
	require.NoError(t, repo.Set(ctx, "s1/analysisHistory", []byte(`[{"id":"2"}]`)))

	got, err := repo.Get(ctx, "s1/analysisHistory")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"2"}]`, string(got))

	require.NoError(t, repo.Delete(ctx, "s1/analysisHistory"))
	_, err = repo.Get(ctx, "s1/analysisHistory")
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.NoError(t, repo.Check(ctx))
}

func TestKVPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	repo, path := openTemp(t)
	require.NoError(t, repo.Set(ctx, "s1/isUnlocked", []byte("true")))
	require.NoError(t, repo.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "s1/isUnlocked")
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))
}

func TestKVEmptyValue(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTemp(t)
	defer repo.Close()

	require.NoError(t, repo.Set(ctx, "k", nil))
	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}
