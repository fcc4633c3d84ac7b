package quota

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	used, err := s.Usage(ctx, "anon:abc")
	require.NoError(t, err)
	assert.Zero(t, used)

	used, err = s.AddUsage(ctx, "anon:abc", 300)
	require.NoError(t, err)
	assert.Equal(t, 300, used)

	used, err = s.AddUsage(ctx, "anon:abc", 200)
	require.NoError(t, err)
	assert.Equal(t, 500, used)

	// other identities are independent
	used, err = s.Usage(ctx, "acct:xyz")
	require.NoError(t, err)
	assert.Zero(t, used)

	require.NoError(t, s.Reset(ctx, "anon:abc"))
	used, err = s.Usage(ctx, "anon:abc")
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "quota.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))

	used, err := s.AddUsage(ctx, "anon:abc", 4800)
	require.NoError(t, err)
	assert.Equal(t, 4800, used)

	used, err = s.AddUsage(ctx, "anon:abc", 300)
	require.NoError(t, err)
	assert.Equal(t, 5100, used)

	used, err = s.Usage(ctx, "anon:abc")
	require.NoError(t, err)
	assert.Equal(t, 5100, used)

	require.NoError(t, s.Reset(ctx, "anon:abc"))
	used, err = s.Usage(ctx, "anon:abc")
	require.NoError(t, err)
	assert.Zero(t, used)
}
