package account_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ferdiebergado/susi/internal/account"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) account.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return account.NewRedisStore(client, "test")
}

func newMemoryStore(t *testing.T) account.Store {
	t.Helper()
	return account.NewMemoryStore()
}

func TestStores(t *testing.T) {
	t.Parallel()

	stores := map[string]func(*testing.T) account.Store{
		"memory": newMemoryStore,
		"redis":  newRedisStore,
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			runStoreContract(t, newStore)
		})
	}
}

func runStoreContract(t *testing.T, newStore func(*testing.T) account.Store) {
	t.Helper()

	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	code := account.Code{Value: "1234", ExpiresAt: expiry}

	t.Run("find missing account", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		_, err := store.FindByEmail(t.Context(), "nobody@example.com")
		assert.ErrorIs(t, err, account.ErrNotFound)
	})

	t.Run("create then find", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		created, err := store.Create(t.Context(), account.New("  Alice@Example.COM ", "hash", code))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, int64(1), created.Version)
		assert.Equal(t, "alice@example.com", created.Email)

		found, err := store.FindByEmail(t.Context(), "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "hash", found.PasswordHash)
		assert.False(t, found.Verified)
		require.NotNil(t, found.VerificationCode)
		assert.Equal(t, "1234", found.VerificationCode.Value)
		assert.True(t, expiry.Equal(found.VerificationCode.ExpiresAt))
		assert.Nil(t, found.ResetCode)
	})

	t.Run("duplicate email differing in case", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		_, err := store.Create(t.Context(), account.New("bob@example.com", "hash", code))
		require.NoError(t, err)

		_, err = store.Create(t.Context(), account.New("BOB@example.com", "other", code))
		assert.ErrorIs(t, err, account.ErrDuplicateKey)
	})

	t.Run("save bumps version and clears codes", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		created, err := store.Create(t.Context(), account.New("carol@example.com", "hash", code))
		require.NoError(t, err)

		saved, err := store.Save(t.Context(), created.MarkVerified())
		require.NoError(t, err)
		assert.Equal(t, created.Version+1, saved.Version)

		found, err := store.FindByEmail(t.Context(), "carol@example.com")
		require.NoError(t, err)
		assert.True(t, found.Verified)
		assert.Nil(t, found.VerificationCode)
		assert.Equal(t, saved.Version, found.Version)
	})

	t.Run("save with stale version", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		created, err := store.Create(t.Context(), account.New("dave@example.com", "hash", code))
		require.NoError(t, err)

		_, err = store.Save(t.Context(), created.WithResetCode(code))
		require.NoError(t, err)

		_, err = store.Save(t.Context(), created.MarkVerified())
		assert.ErrorIs(t, err, account.ErrConflict)

		found, err := store.FindByEmail(t.Context(), "dave@example.com")
		require.NoError(t, err)
		assert.False(t, found.Verified)
		assert.NotNil(t, found.ResetCode)
	})

	t.Run("save missing account", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		_, err := store.Save(t.Context(), account.New("erin@example.com", "hash", code))
		assert.ErrorIs(t, err, account.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		_, err := store.Create(t.Context(), account.New("frank@example.com", "hash", code))
		require.NoError(t, err)

		require.NoError(t, store.DeleteByEmail(t.Context(), "Frank@example.com"))

		_, err = store.FindByEmail(t.Context(), "frank@example.com")
		assert.ErrorIs(t, err, account.ErrNotFound)

		err = store.DeleteByEmail(t.Context(), "frank@example.com")
		assert.ErrorIs(t, err, account.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, newStore(t).Ping(t.Context()))
	})
}
