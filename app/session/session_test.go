package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mytheresa/go-storefront/app/cart"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func newTestSession() *Session {
	sess := New()
	sess.Cart = cart.Cart{
		Entries: map[string]cart.Entry{
			"7": {Quantity: 2, Name: "Mug", Price: decimal.RequireFromString("8.50")},
		},
		Order: []string{"7"},
	}
	sess.CustomerInfo = &CustomerInfo{FirstName: "Ada", Email: "ada@example.com"}
	sess.SelectedPaymentMethod = "Bank transfer"
	sess.AddFlash(LevelInfo, "hello")
	return sess
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

// --- Tests ---

func TestFlashes(t *testing.T) {
	sess := New()
	assert.False(t, sess.Modified())
	assert.Nil(t, sess.PopFlashes())

	sess.AddFlash(LevelSuccess, "added")
	sess.AddFlash(LevelError, "failed")
	assert.True(t, sess.Modified())

	flashes := sess.PopFlashes()
	assert.Equal(t, []Flash{
		{Level: LevelSuccess, Message: "added"},
		{Level: LevelError, Message: "failed"},
	}, flashes)
	assert.Empty(t, sess.Flashes)
}

func TestStores(t *testing.T) {
	redisStore, _ := newRedisStore(t)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sess := newTestSession()

			_, err := store.Load(ctx, sess.ID)
			assert.ErrorIs(t, err, ErrSessionNotFound)

			require.NoError(t, store.Save(ctx, sess, time.Hour))

			loaded, err := store.Load(ctx, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, sess.ID, loaded.ID)
			assert.Equal(t, "Ada", loaded.CustomerInfo.FirstName)
			assert.Equal(t, "Bank transfer", loaded.SelectedPaymentMethod)
			assert.Len(t, loaded.Flashes, 1)
			assert.False(t, loaded.Modified())

			e, ok := loaded.Cart.Get("7")
			assert.True(t, ok)
			assert.Equal(t, 2, e.Quantity)
			assert.True(t, decimal.RequireFromString("8.50").Equal(e.Price))

			require.NoError(t, store.Delete(ctx, sess.ID))
			_, err = store.Load(ctx, sess.ID)
			assert.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newMemoryStore(time.Hour)

	sess := New()
	require.NoError(t, store.Save(context.Background(), sess, 50*time.Millisecond))

	_, err := store.Load(context.Background(), sess.ID)
	assert.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	_, err = store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreSweepsExpiredRecords(t *testing.T) {
	store := newMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Save(ctx, New(), 20*time.Millisecond))
	}
	kept := New()
	require.NoError(t, store.Save(ctx, kept, time.Hour))

	assert.Eventually(t, func() bool { return store.Len() == 1 }, 2*time.Second, 10*time.Millisecond,
		"expired sessions are dropped without being loaded again")

	_, err := store.Load(ctx, kept.ID)
	assert.NoError(t, err)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	sess := New()

	require.NoError(t, store.Save(context.Background(), sess, 30*time.Minute))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:"+sess.ID))

	mr.FastForward(31 * time.Minute)
	_, err := store.Load(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("session:broken", "{not json"))

	_, err := store.Load(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestManager(t *testing.T) {
	store := NewMemoryStore()
	manager := NewManager(store, "sessionid", time.Hour, false)
	ctx := context.Background()

	t.Run("No cookie yields a fresh session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		sess := manager.Load(ctx, req)
		assert.NotEmpty(t, sess.ID)
		assert.True(t, sess.Cart.IsEmpty())
	})

	t.Run("Unmodified session is not saved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		sess := manager.Load(ctx, req)
		rec := httptest.NewRecorder()

		require.NoError(t, manager.Save(ctx, rec, sess))
		assert.Empty(t, rec.Result().Cookies())

		_, err := store.Load(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Modified session round-trips through the cookie", func(t *testing.T) {
		sess := manager.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		sess.SelectedPaymentMethod = "Zelle"
		sess.MarkModified()

		rec := httptest.NewRecorder()
		require.NoError(t, manager.Save(ctx, rec, sess))
		assert.False(t, sess.Modified())

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sessionid", cookies[0].Name)
		assert.Equal(t, sess.ID, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 3600, cookies[0].MaxAge)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookies[0])
		loaded := manager.Load(ctx, req)
		assert.Equal(t, sess.ID, loaded.ID)
		assert.Equal(t, "Zelle", loaded.SelectedPaymentMethod)
	})

	t.Run("Unknown cookie yields a fresh session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: "stale"})
		sess := manager.Load(ctx, req)
		assert.NotEqual(t, "stale", sess.ID)
	})
}
