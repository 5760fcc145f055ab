package http

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func checkInRouter(t *testing.T, trusted []string) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return NewRouter(Deps{
		CheckIn:        &stubCheckInService{},
		TrustedProxies: trusted,
		Logger:         log.New(io.Discard, "", 0),
		CheckInLimiter: NewRateLimiter(ctx, LimiterConfig{RPS: 0.001, Burst: 1, IdleTTL: time.Minute}),
	})
}

func identifyFrom(h http.Handler, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/check-in", strings.NewReader(`{"categoryId":"c1","email":"a@x.io"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouter_CheckInLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	t.Parallel()

	h := checkInRouter(t, nil)

	var codes []int
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3", "4.4.4.4", "5.5.5.5"} {
		codes = append(codes, identifyFrom(h, "203.0.113.7:4000", xff))
	}

	tooMany := http.StatusTooManyRequests
	want := []int{http.StatusOK, tooMany, tooMany, tooMany, tooMany}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, codes)
		}
	}
}

func TestRouter_CheckInLimitUsesForwardedForFromTrustedProxy(t *testing.T) {
	t.Parallel()

	h := checkInRouter(t, []string{"10.0.0.0/8"})

	if code := identifyFrom(h, "10.0.0.2:4000", "198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", code)
	}
	if code := identifyFrom(h, "10.0.0.2:4000", "198.51.100.2"); code != http.StatusOK {
		t.Fatalf("second client behind proxy: expected 200, got %d", code)
	}
	if code := identifyFrom(h, "10.0.0.2:4000", "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("repeat client: expected 429, got %d", code)
	}
}
