package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/todo-list-api/internal/config"
)

// UserCache caches GET responses per authenticated user so that one user's
// cached list can never be served to another. Mutating handlers call
// Invalidate after each write, keeping the cache no more stale than the
// configured TTL even if an invalidation is lost.
type UserCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewUserCache builds a UserCache. A nil Redis client or a disabled config
// turns the cache into a no-op.
func NewUserCache(cfg config.CacheConfig, rdb *redis.Client) *UserCache {
	return &UserCache{cfg: cfg, rdb: rdb}
}

func (uc *UserCache) enabled() bool {
	return uc != nil && uc.rdb != nil && uc.cfg.Enabled
}

// captureWriter captures the response body while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Middleware caches successful GET responses keyed by route and user id.
// It must run after JWTAuth so that the user id is present in context.
func (uc *UserCache) Middleware() echo.MiddlewareFunc {
	if !uc.enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			uid, ok := c.Get("user_id").(uint64)
			if !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			key := uc.key(c.Path(), uid)
			if body, err := uc.rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				_ = uc.rdb.SetEx(context.Background(), key, cw.buf.Bytes(), uc.cfg.TTL).Err()
			}
			return nil
		}
	}
}

// Invalidate drops the cached response for one user and route. Failures
// are ignored; the entry expires by TTL anyway.
func (uc *UserCache) Invalidate(ctx context.Context, route string, userID uint64) {
	if !uc.enabled() {
		return
	}
	_ = uc.rdb.Del(ctx, uc.key(route, userID)).Err()
}

// key builds a stable, namespaced cache key for a route/user pair.
func (uc *UserCache) key(route string, userID uint64) string {
	sum := sha1.Sum([]byte(route + ":" + strconv.FormatUint(userID, 10)))
	return fmt.Sprintf("%s:%x", uc.cfg.Prefix, sum[:])
}
