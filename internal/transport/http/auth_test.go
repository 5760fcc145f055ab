package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KpG782/qr-registration/internal/auth"
	"github.com/gin-gonic/gin"
)

func TestRequireOrganizer(t *testing.T) {
	t.Parallel()

	issuer := auth.NewIssuer("test-secret")
	token, err := issuer.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	foreign, err := auth.NewIssuer("other-secret").Issue("mallory", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	r := gin.New()
	r.GET("/stats", RequireOrganizer(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(organizerKey))
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "valid", header: "Bearer " + token, expectedStatus: http.StatusOK},
		{name: "missing", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, expectedStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedStatus == http.StatusOK && rec.Body.String() != "alice" {
				t.Fatalf("expected subject alice, got %q", rec.Body.String())
			}
		})
	}
}
