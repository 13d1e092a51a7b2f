package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-list-api/internal/config"
)

// A cache without a Redis backend must be a transparent passthrough.
func TestUserCacheDisabledPassthrough(t *testing.T) {
	uc := NewUserCache(config.CacheConfig{Enabled: true}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))

	h := uc.Middleware()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestUserCacheNilSafe(t *testing.T) {
	var uc *UserCache
	uc.Invalidate(t.Context(), "/api/items", 7)
	assert.False(t, uc.enabled())
}

func TestUserCacheKeyIsPerUser(t *testing.T) {
	uc := NewUserCache(config.CacheConfig{Prefix: "cache"}, nil)
	k1 := uc.key("/api/items", 1)
	k2 := uc.key("/api/items", 2)
	assert.NotEqual(t, k1, k2, "different users must never share a cache entry")
}

func newEnabledCache(t *testing.T) (*UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewUserCache(config.CacheConfig{Enabled: true, TTL: 30 * time.Second, Prefix: "cache"}, rdb), mr
}

// runCached sends one GET through the cache middleware into a handler that
// counts its invocations, the way the list endpoint sits behind the gate.
func runCached(t *testing.T, uc *UserCache, uid uint64, calls *int, status int) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/items")
	c.Set("user_id", uid)

	h := uc.Middleware()(func(c echo.Context) error {
		*calls++
		return c.JSON(status, []string{"milk"})
	})
	require.NoError(t, h(c))
	return rec
}

func TestUserCacheMissThenHit(t *testing.T) {
	uc, _ := newEnabledCache(t)
	calls := 0

	first := runCached(t, uc, 7, &calls, http.StatusOK)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	second := runCached(t, uc, 7, &calls, http.StatusOK)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls, "a hit must be served without invoking the handler")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestUserCacheEntryCarriesTTL(t *testing.T) {
	uc, mr := newEnabledCache(t)
	calls := 0

	runCached(t, uc, 7, &calls, http.StatusOK)
	assert.Equal(t, 30*time.Second, mr.TTL(uc.key("/api/items", 7)))

	mr.FastForward(time.Minute)
	runCached(t, uc, 7, &calls, http.StatusOK)
	assert.Equal(t, 2, calls, "an expired entry must fall through to the handler")
}

func TestUserCacheInvalidateIsPerUser(t *testing.T) {
	uc, _ := newEnabledCache(t)
	calls := 0

	// warm both users
	runCached(t, uc, 7, &calls, http.StatusOK)
	runCached(t, uc, 8, &calls, http.StatusOK)
	require.Equal(t, 2, calls)

	uc.Invalidate(t.Context(), "/api/items", 7)

	rec := runCached(t, uc, 7, &calls, http.StatusOK)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls, "invalidation must force a reload for that user")

	rec = runCached(t, uc, 8, &calls, http.StatusOK)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls, "another user's entry must survive the invalidation")
}

func TestUserCacheSkipsErrorResponses(t *testing.T) {
	uc, mr := newEnabledCache(t)
	calls := 0

	runCached(t, uc, 7, &calls, http.StatusInternalServerError)
	assert.Empty(t, mr.Keys(), "failed responses must not be cached")

	runCached(t, uc, 7, &calls, http.StatusInternalServerError)
	assert.Equal(t, 2, calls)
}
