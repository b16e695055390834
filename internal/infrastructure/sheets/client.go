package sheets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/offerdeck/backend/internal/domain"
)

const (
	userAgent   = "offerdeck-backend/1.0"
	maxAttempts = 3
)

// Client fetches published-CSV sheet exports over HTTP and parses them
// into schema-free rows
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	log         *logrus.Logger
}

// NewClient creates a sheet client. fetchesPerMinute throttles outbound
// requests across all sources sharing this client.
func NewClient(timeout time.Duration, fetchesPerMinute int, logger *logrus.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if fetchesPerMinute <= 0 {
		fetchesPerMinute = 60
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	limiter := rate.NewLimiter(rate.Limit(float64(fetchesPerMinute)/60.0), fetchesPerMinute)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: limiter,
		log:         logger,
	}
}

// FetchRows downloads one sheet and returns its rows as string-keyed
// records. Transient failures are retried with backoff; any terminal
// failure wraps domain.ErrSourceFetchFailure so the caller can treat it
// as one non-fatal source loss.
func (c *Client) FetchRows(ctx context.Context, url string) ([]map[string]string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retryable, err := c.fetch(ctx, url)
		if err != nil {
			lastErr = err
			c.log.WithError(err).WithFields(logrus.Fields{
				"url":     url,
				"attempt": attempt,
			}).Warn("Sheet fetch failed")
			if !retryable {
				return nil, err
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt*500) * time.Millisecond):
			}
			continue
		}

		rows, err := parseRows(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceFetchFailure, err)
		}
		c.log.WithFields(logrus.Fields{
			"url":  url,
			"rows": len(rows),
		}).Info("Fetched sheet")
		return rows, nil
	}
	return nil, lastErr
}

// fetch performs one GET. The bool reports whether the failure is worth
// retrying (network errors and 5xx are, 4xx is not).
func (c *Client) fetch(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrSourceFetchFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading body: %v", domain.ErrSourceFetchFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= http.StatusInternalServerError
		return nil, retryable, fmt.Errorf("%w: status %d", domain.ErrSourceFetchFailure, resp.StatusCode)
	}
	return body, false, nil
}

// parseRows turns a CSV body into cleaned string-keyed rows
func parseRows(body []byte) ([]map[string]string, error) {
	rows, err := gocsv.CSVToMaps(bytes.NewReader(stripBOM(body)))
	if err != nil {
		return nil, err
	}
	return cleanRows(rows), nil
}
