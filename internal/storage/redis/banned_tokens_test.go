package redis

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *BannedTokenStore) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewFromClient(client, time.Hour)
	t.Cleanup(func() { store.Cleanup() })
	return mr, store
}

func TestBan(t *testing.T) {
	_, store := newTestStore(t)

	require.NoError(t, store.Ban("token-a"))

	err := store.Ban("token-a")
	require.Error(t, err, "Banning twice should return an error")
	assert.Equal(t, http.StatusConflict, internal_errors.StatusCode(err))
}

func TestIsBanned(t *testing.T) {
	_, store := newTestStore(t)

	banned, err := store.IsBanned("token-b")
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, store.Ban("token-b"))

	banned, err = store.IsBanned("token-b")
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestBanExpires(t *testing.T) {
	mr, store := newTestStore(t)

	require.NoError(t, store.Ban("token-c"))
	mr.FastForward(2 * time.Hour)

	banned, err := store.IsBanned("token-c")
	require.NoError(t, err)
	assert.False(t, banned, "ban should lapse once the entry TTL passes")
}
