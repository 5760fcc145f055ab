package http

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := log.New(buf, "", 0)

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.POST("/participants", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	doRequest(t, r, http.MethodPost, "/participants", "")

	out := buf.String()
	if !strings.Contains(out, "method=POST") {
		t.Fatalf("expected method in log, got %q", out)
	}
	if !strings.Contains(out, "path=/participants") {
		t.Fatalf("expected path in log, got %q", out)
	}
	if !strings.Contains(out, "status=201") {
		t.Fatalf("expected status in log, got %q", out)
	}
}

func TestRequestLogger_DefaultsTo200(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := log.New(buf, "", 0)

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/health", HealthHandler)

	doRequest(t, r, http.MethodGet, "/health", "")

	out := buf.String()
	if !strings.Contains(out, "status=200") {
		t.Fatalf("expected default status 200 in log, got %q", out)
	}
}

func TestRequestLogger_IncludesInternalErrors(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := log.New(buf, "", 0)

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/stats", func(c *gin.Context) {
		writeServiceError(c, errors.New("disk full"))
	})

	rec := doRequest(t, r, http.MethodGet, "/stats", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Fatalf("internal detail leaked to client: %s", rec.Body.String())
	}
	out := buf.String()
	if !strings.Contains(out, "status=500") || !strings.Contains(out, "disk full") {
		t.Fatalf("expected status and error in log, got %q", out)
	}
}
