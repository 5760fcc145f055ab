package cache

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestResponseCache_MissThenHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, rdb := newRedis(t)

	calls := 0
	r := gin.New()
	r.Use(ResponseCache(rdb, 30*time.Second, quiet()))
	r.GET("/stats", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"total": calls})
	})

	first := serve(r, http.MethodGet, "/stats")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"total":1}`, first.Body.String())

	second := serve(r, http.MethodGet, "/stats")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"total":1}`, second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	other := serve(r, http.MethodGet, "/stats?eventId=abc")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestResponseCache_SkipsErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, rdb := newRedis(t)

	calls := 0
	r := gin.New()
	r.Use(ResponseCache(rdb, 30*time.Second, quiet()))
	r.GET("/missing", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	serve(r, http.MethodGet, "/missing")
	w := serve(r, http.MethodGet, "/missing")
	assert.NotEqual(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestInvalidator_PurgeOnWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, rdb := newRedis(t)
	inv := NewInvalidator(rdb, quiet())

	calls := 0
	r := gin.New()
	r.Use(inv.PurgeOnWrite(), ResponseCache(rdb, time.Minute, quiet()))
	r.GET("/events", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.POST("/events", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "e1"})
	})
	r.POST("/broken", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})

	serve(r, http.MethodGet, "/events")
	require.Len(t, mr.Keys(), 1)

	serve(r, http.MethodPost, "/broken")
	assert.Len(t, mr.Keys(), 1, "failed writes keep the cache")

	serve(r, http.MethodPost, "/events")
	assert.Equal(t, []string{generationKey}, mr.Keys())

	w := serve(r, http.MethodGet, "/events")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestInvalidator_PurgeLeavesForeignKeys(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("unrelated", "1"))
	require.NoError(t, mr.Set(keyPrefix+"abc", "x"))

	n, err := NewInvalidator(rdb, quiet()).Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, mr.Exists("unrelated"))
}

func TestResponseCache_DropsResponseBuiltDuringPurge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, rdb := newRedis(t)
	inv := NewInvalidator(rdb, quiet())

	calls := 0
	r := gin.New()
	r.Use(ResponseCache(rdb, time.Minute, quiet()))
	r.GET("/stats", func(c *gin.Context) {
		calls++
		if calls == 1 {
			// a check-in commits and purges while this read is in flight
			_, err := inv.Purge(c.Request.Context())
			require.NoError(t, err)
		}
		c.JSON(http.StatusOK, gin.H{"checkedIn": calls})
	})

	first := serve(r, http.MethodGet, "/stats")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, []string{generationKey}, mr.Keys())

	second := serve(r, http.MethodGet, "/stats")
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"checkedIn":2}`, second.Body.String())

	third := serve(r, http.MethodGet, "/stats")
	assert.Equal(t, "HIT", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}
