// internal/adapters/rapidapi/client.go
package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotel_finder/internal/adapters/observability"
)

const (
	maxAttempts = 4
	baseDelay   = 200 * time.Millisecond
	// maxDelay bounds any single wait, including a provider's Retry-After,
	// so one slow provider cannot hold a dialog step for minutes.
	maxDelay = 10 * time.Second
)

// Client talks to one RapidAPI-hosted API. The key is shared across all
// RapidAPI products; the host header selects the product.
type Client struct {
	service string
	base    string
	host    string
	key     string
	hc      *http.Client
}

func New(service, base, host, key string, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("%s: API key is required", service)
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		service: service,
		base:    strings.TrimRight(base, "/"),
		host:    host,
		key:     key,
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

var (
	ErrNotFound     = errors.New("rapidapi: not found")
	ErrUnauthorized = errors.New("rapidapi: unauthorized")
	ErrForbidden    = errors.New("rapidapi: forbidden")
)

// Get issues a GET to path with params and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, path, u, nil, out)
}

// Post sends body as JSON to path and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", c.service, path, err)
	}
	return c.do(ctx, http.MethodPost, path, c.base+path, b, out)
}

// do performs the request with retries on 429 and transient 5xx, honoring
// Retry-After when provided.
func (c *Client) do(ctx context.Context, method, endpoint, u string, body []byte, out any) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// build a fresh request each attempt
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rd)
		if err != nil {
			return err
		}
		req.Header.Set("X-RapidAPI-Key", c.key)
		req.Header.Set("X-RapidAPI-Host", c.host)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-finder/1.0")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i == maxAttempts-1 {
				return lastErr
			}
			if err := pause(ctx, backoff(i)); err != nil {
				return err
			}
			continue
		}
		observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s %s: decode: %w", c.service, endpoint, err)
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait, ok := retryAfter(resp.Header.Get("Retry-After"), time.Now())
			resp.Body.Close()
			if !ok {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%s %s: remote %d", c.service, endpoint, resp.StatusCode)
			if i == maxAttempts-1 {
				return lastErr
			}
			if err := pause(ctx, wait); err != nil {
				return err
			}
			continue

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%s %s: bad status %d: %s", c.service, endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// pause blocks for d, returning ctx.Err() if the context ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryAfter reads a Retry-After value given in seconds or as an HTTP date,
// capped at maxDelay. ok is false when the header is absent or unusable.
func retryAfter(h string, now time.Time) (time.Duration, bool) {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0, false
	}
	var d time.Duration
	if secs, err := strconv.Atoi(h); err == nil {
		if secs < 0 {
			return 0, false
		}
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(h); err == nil {
		d = max(at.Sub(now), 0)
	} else {
		return 0, false
	}
	return min(d, maxDelay), true
}

// backoff grows from baseDelay by doubling, adds up to 50% jitter and
// never exceeds maxDelay.
func backoff(attempt int) time.Duration {
	d := baseDelay << min(attempt, 10)
	d += rand.N(d/2 + 1)
	return min(d, maxDelay)
}
