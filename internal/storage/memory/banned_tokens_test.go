package memory

import (
	"fmt"
	"sync"
	"testing"

	internal_errors "github.com/authgate-dev/authgate/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannedTokenStore_Ban(t *testing.T) {
	store := NewBannedTokenStore()

	require.NoError(t, store.Ban("token-1"))

	err := store.Ban("token-1")
	require.Error(t, err)
	assert.True(t, internal_errors.IsConflict(err))

	banned, err := store.IsBanned("token-1")
	require.NoError(t, err)
	assert.True(t, banned, "token stays banned after the failed second ban")
}

func TestBannedTokenStore_IsBanned(t *testing.T) {
	store := NewBannedTokenStore()

	banned, err := store.IsBanned("unknown")
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, store.Ban("token-1"))
	banned, err = store.IsBanned("token-1")
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestBannedTokenStore_ConcurrentBanSameToken(t *testing.T) {
	store := NewBannedTokenStore()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Ban("contested")
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, internal_errors.IsConflict(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one ban must win the race")
}

func TestBannedTokenStore_ConcurrentMixed(t *testing.T) {
	store := NewBannedTokenStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		token := fmt.Sprintf("token-%d", i)
		go func() {
			defer wg.Done()
			_ = store.Ban(token)
		}()
		go func() {
			defer wg.Done()
			_, err := store.IsBanned(token)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i := 0; i < 32; i++ {
		banned, err := store.IsBanned(fmt.Sprintf("token-%d", i))
		require.NoError(t, err)
		assert.True(t, banned)
	}
}
