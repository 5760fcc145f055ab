// Package cache keeps dashboard read responses in Redis and drops them after writes.
package cache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "qr-registration:cache:"

	// generationKey is bumped by every purge and lives outside keyPrefix.
	generationKey = "qr-registration:cache-generation"
)

// storeIfCurrent writes the response only when no purge ran since the
// request read the generation.
var storeIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

type cachedResponse struct {
	Status int
	Header map[string][]string
	Body   []byte
}

// KeyFor derives the cache key of a GET request from its route template, path and query.
func KeyFor(c *gin.Context) string {
	if c.Request.Method != http.MethodGet || c.FullPath() == "" {
		return ""
	}
	sum := sha1.Sum([]byte(c.FullPath() + "|" + c.Request.URL.Path + "|" + c.Request.URL.RawQuery))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// ResponseCache serves cached 2xx GET responses and stores fresh ones for ttl.
// Redis failures fall through to the handler.
func ResponseCache(rdb *redis.Client, ttl time.Duration, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		key := KeyFor(c)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if b, err := rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			var hit cachedResponse
			if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&hit); err == nil {
				for k, vals := range hit.Header {
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				c.Writer.Header().Set("X-Cache", "HIT")
				c.Status(hit.Status)
				_, _ = c.Writer.Write(hit.Body)
				c.Abort()
				return
			}
		} else if err != nil && err != redis.Nil {
			logger.Printf("WARN: cache get failed: %v", err)
		}

		gen, err := generation(ctx, rdb)
		if err != nil {
			logger.Printf("WARN: cache generation read failed: %v", err)
			c.Next()
			return
		}

		buf := &bytes.Buffer{}
		bw := &bufferedWriter{ResponseWriter: c.Writer, buf: buf}
		c.Writer = bw
		c.Writer.Header().Set("X-Cache", "MISS")

		c.Next()

		if bw.Status() < 200 || bw.Status() >= 300 {
			return
		}
		header := map[string][]string{}
		for k, vals := range bw.Header() {
			if k == "X-Cache" {
				continue
			}
			header[k] = append([]string(nil), vals...)
		}
		var out bytes.Buffer
		if err := gob.NewEncoder(&out).Encode(cachedResponse{Status: bw.Status(), Header: header, Body: buf.Bytes()}); err != nil {
			return
		}
		keys := []string{generationKey, key}
		err = storeIfCurrent.Run(context.WithoutCancel(ctx), rdb, keys, gen, out.Bytes(), ttl.Milliseconds()).Err()
		if err != nil {
			logger.Printf("WARN: cache set failed: %v", err)
		}
	}
}

func generation(ctx context.Context, rdb *redis.Client) (string, error) {
	gen, err := rdb.Get(ctx, generationKey).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return gen, err
}

type bufferedWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Invalidator drops every cached response.
type Invalidator struct {
	rdb    *redis.Client
	logger *log.Logger
}

func NewInvalidator(rdb *redis.Client, logger *log.Logger) *Invalidator {
	if logger == nil {
		logger = log.Default()
	}
	return &Invalidator{rdb: rdb, logger: logger}
}

// Purge deletes all cached responses and returns how many keys were removed.
// Responses still being built when Purge runs are not stored afterwards.
func (i *Invalidator) Purge(ctx context.Context) (int, error) {
	if err := i.rdb.Incr(ctx, generationKey).Err(); err != nil {
		return 0, err
	}
	n := 0
	iter := i.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := i.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return n, err
		}
		n++
	}
	return n, iter.Err()
}

// PurgeOnWrite purges the cache after any successful mutating request.
func (i *Invalidator) PurgeOnWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		if _, err := i.Purge(context.WithoutCancel(c.Request.Context())); err != nil {
			i.logger.Printf("WARN: cache purge failed: %v", err)
		}
	}
}
