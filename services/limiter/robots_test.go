package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRobotsChecker_Allowed(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker("Mozilla/5.0 (compatible)", 5*time.Second)
	ctx := context.Background()

	allowed, err := checker.Allowed(ctx, server.URL+"/news/industrial/")
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = checker.Allowed(ctx, server.URL+"/private/report")
	assert.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, int32(1), robotsHits.Load())
}

func TestRobotsChecker_MissingRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker("cre-bot/1.0", 5*time.Second)
	allowed, err := checker.Allowed(context.Background(), server.URL+"/anything")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsChecker_ServerErrorIsRetried(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if robotsHits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker("cre-bot/1.0", 5*time.Second)
	checker.retryAfter = 50 * time.Millisecond
	ctx := context.Background()

	// A 503 allows everything instead of blocking the host.
	allowed, err := checker.Allowed(ctx, server.URL+"/private/report")
	assert.NoError(t, err)
	assert.True(t, allowed)

	// The failure is remembered, so the next page does not refetch.
	allowed, err = checker.Allowed(ctx, server.URL+"/private/other")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int32(1), robotsHits.Load())

	time.Sleep(80 * time.Millisecond)

	allowed, err = checker.Allowed(ctx, server.URL+"/private/report")
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int32(2), robotsHits.Load())
}

func TestRobotsChecker_UnreachableIsRemembered(t *testing.T) {
	checker := NewRobotsChecker("cre-bot/1.0", time.Second)
	ctx := context.Background()

	allowed, err := checker.Allowed(ctx, "http://127.0.0.1:1/news/")
	assert.NoError(t, err)
	assert.True(t, allowed)

	checker.mu.RLock()
	entry, ok := checker.cache["127.0.0.1:1"]
	checker.mu.RUnlock()
	assert.True(t, ok)
	assert.Nil(t, entry.data)
	assert.False(t, entry.failedAt.IsZero())
}

func TestProductToken(t *testing.T) {
	assert.Equal(t, "Mozilla", productToken("Mozilla/5.0 (Windows NT 10.0)"))
	assert.Equal(t, "cre-bot", productToken("cre-bot/1.0"))
	assert.Equal(t, "", productToken(""))
}
