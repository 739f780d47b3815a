// Package pdsclient talks to an AT Protocol personal data server. The
// engines only need the repo record surface: read one record and overwrite
// one record, both addressed by (repo DID, collection, rkey).
package pdsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"antilurk/internal/metrics"
)

// ErrRecordNotFound reports a read miss on a record slot. Callers treat it
// as absence, not failure.
var ErrRecordNotFound = errors.New("record not found")

// ErrNotAuthenticated reports a repo operation attempted without a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// RecordStore is the subset of the PDS surface the engines consume.
type RecordStore interface {
	// GetRecord reads the record at (repo, collection, rkey) into out.
	// Returns ErrRecordNotFound when the slot is empty.
	GetRecord(ctx context.Context, repo, collection, rkey string, out any) error
	// PutRecord overwrites the record at (repo, collection, rkey).
	PutRecord(ctx context.Context, repo, collection, rkey string, record any) error
	// DID returns the authenticated repo identity, or "" without a session.
	DID() string
}

// HTTPClient is an access-JWT client for the com.atproto.repo XRPC surface.
type HTTPClient struct {
	baseURL     string
	accessJWT   string
	did         string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
}

// NewHTTPClient builds a client for the PDS at host (e.g.
// "https://bsky.social") authenticated as did with accessJWT. Either
// credential may be empty for unauthenticated fetch-only use.
func NewHTTPClient(host, did, accessJWT string) *HTTPClient {
	return &HTTPClient{
		baseURL:     host + "/xrpc",
		accessJWT:   accessJWT,
		did:         did,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     newDefaultLimiter(),
		maxAttempts: getEnvInt("PDS_MAX_ATTEMPTS", 5),
		baseBackoff: time.Duration(getEnvInt("PDS_BASE_BACKOFF_MS", 500)) * time.Millisecond,
	}
}

// DID returns the authenticated repo identity.
func (c *HTTPClient) DID() string { return c.did }

func (c *HTTPClient) auth(req *http.Request) {
	if c.accessJWT != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessJWT)
	}
	req.Header.Set("Accept", "application/json")
}

// GetRecord implements RecordStore.
func (c *HTTPClient) GetRecord(ctx context.Context, repo, collection, rkey string, out any) error {
	if repo == "" {
		return ErrNotAuthenticated
	}
	q := url.Values{}
	q.Set("repo", repo)
	q.Set("collection", collection)
	q.Set("rkey", rkey)
	u := fmt.Sprintf("%s/com.atproto.repo.getRecord?%s", c.baseURL, q.Encode())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	c.auth(req)
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrRecordNotFound
	case resp.StatusCode == http.StatusBadRequest:
		// The reference PDS answers a missing record with 400 RecordNotFound.
		// Other 400s (InvalidRequest and friends) are real failures and must
		// not read as absence.
		var xe struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&xe)
		if xe.Error == "RecordNotFound" {
			return ErrRecordNotFound
		}
		return fmt.Errorf("pds status 400 %s: %s", xe.Error, xe.Message)
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNotAuthenticated
	case resp.StatusCode >= 400:
		return fmt.Errorf("pds status %d", resp.StatusCode)
	}
	var raw struct {
		URI   string          `json:"uri"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return err
	}
	if len(raw.Value) == 0 {
		return ErrRecordNotFound
	}
	return json.Unmarshal(raw.Value, out)
}

// PutRecord implements RecordStore.
func (c *HTTPClient) PutRecord(ctx context.Context, repo, collection, rkey string, record any) error {
	if c.accessJWT == "" || repo == "" {
		return ErrNotAuthenticated
	}
	body, err := json.Marshal(map[string]any{
		"repo":       repo,
		"collection": collection,
		"rkey":       rkey,
		"record":     record,
	})
	if err != nil {
		return err
	}
	u := c.baseURL + "/com.atproto.repo.putRecord"
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNotAuthenticated
	case resp.StatusCode >= 400:
		return fmt.Errorf("pds status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			b, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = b
		}
		resp, err := c.httpClient.Do(attemptReq)
		if err == nil {
			if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599) {
				lastErr = fmt.Errorf("pds status %d", resp.StatusCode)
				ra := resp.Header.Get("Retry-After")
				_ = resp.Body.Close()
				wait := backoff
				if ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					} else if t, err := http.ParseTime(ra); err == nil {
						if d := time.Until(t); d > 0 {
							wait = d
						}
					}
				}
				// jitter +/-20%
				jitter := time.Duration(float64(wait) * 0.2)
				if jitter > 0 {
					wait = wait - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter))
				}
				metrics.IncAPIRetry(req.URL.Path)
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				backoff *= 2
				continue
			}
			return resp, nil
		}
		lastErr = err
		metrics.IncAPIRetry(req.URL.Path)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil && i > 0 {
		return i
	}
	return def
}
