package limiter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// DefaultRobotsRetry is how long a robots.txt that could not be fetched is
// treated as allow-all before it is requested again.
const DefaultRobotsRetry = 5 * time.Minute

var errRobotsUnavailable = errors.New("robots.txt unavailable")

type robotsEntry struct {
	data     *robotstxt.RobotsData
	failedAt time.Time
}

// RobotsChecker checks robots.txt compliance, caching the file per host.
type RobotsChecker struct {
	cache      map[string]robotsEntry
	mu         sync.RWMutex
	httpClient *http.Client
	userAgent  string
	retryAfter time.Duration
}

// NewRobotsChecker creates a new robots.txt checker
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		cache:      make(map[string]robotsEntry),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		retryAfter: DefaultRobotsRetry,
	}
}

// Allowed reports whether rawURL may be fetched. A robots.txt that cannot
// be fetched (network error or 5xx) or parsed allows everything; the
// failure is remembered for the retry period so the file is not requested
// before every page.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	data, err := r.robotsData(ctx, parsed.Host, robotsURL)
	if err != nil {
		return true, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, productToken(r.userAgent)), nil
}

func (r *RobotsChecker) robotsData(ctx context.Context, host, robotsURL string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	entry, exists := r.cache[host]
	r.mu.RUnlock()
	if exists {
		if entry.data != nil {
			return entry.data, nil
		}
		if time.Since(entry.failedAt) < r.retryAfter {
			return nil, errRobotsUnavailable
		}
	}

	data, err := r.fetchRobots(ctx, robotsURL)
	if err != nil {
		if ctx.Err() == nil {
			r.store(host, robotsEntry{failedAt: time.Now()})
		}
		return nil, err
	}
	r.store(host, robotsEntry{data: data})
	return data, nil
}

func (r *RobotsChecker) fetchRobots(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// robotstxt reads a server error as disallow-all
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("fetch robots.txt: status %d: %w", resp.StatusCode, errRobotsUnavailable)
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

func (r *RobotsChecker) store(host string, entry robotsEntry) {
	r.mu.Lock()
	r.cache[host] = entry
	r.mu.Unlock()
}

// productToken reduces a user agent to the token robots.txt groups use,
// e.g. "Mozilla/5.0 (...)" -> "Mozilla".
func productToken(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
