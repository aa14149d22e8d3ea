package yandex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/errorfreetext/errorfree/internal/config"
	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/platform/logger"
	"github.com/errorfreetext/errorfree/internal/spelling"
	"github.com/sethvargo/go-retry"
)

// maxErrorBody bounds how much of a failed response body is kept for logs.
const maxErrorBody = 512

// Observer receives per-attempt measurements. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveSpellerAttempt(outcome string, d time.Duration)
	IncSpellerRetry()
}

// Client calls the Yandex Speller API.
type Client struct {
	httpClient  *http.Client
	apiURL      string
	maxAttempts int
	retryDelay  time.Duration
	attemptTTL  time.Duration
	observer    Observer
	logger      *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client built from the timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver reports attempts to o.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a Client from the speller configuration.
func NewClient(cfg config.SpellerConfig, log *slog.Logger, opts ...ClientOption) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%w: speller api url cannot be empty", domain.ErrConfiguration)
	}
	if _, err := url.ParseRequestURI(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("%w: invalid speller api url: %v", domain.ErrConfiguration, err)
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1, got %d", domain.ErrConfiguration, cfg.MaxAttempts)
	}
	if cfg.RetryDelay < 0 {
		return nil, fmt.Errorf("%w: retry delay cannot be negative", domain.ErrConfiguration)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout
	transport.ResponseHeaderTimeout = cfg.ReadTimeout

	c := &Client{
		httpClient:  &http.Client{Transport: transport},
		apiURL:      cfg.APIURL,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		attemptTTL:  cfg.ConnectTimeout + cfg.ReadTimeout,
		logger:      log.With("component", "yandex_speller"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Correct sends text to the speller and applies the reported corrections.
func (c *Client) Correct(
	ctx context.Context,
	text string,
	language domain.Language,
	options []domain.Option,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	corrections, err := c.check(ctx, text, language, options)
	if err != nil {
		return "", err
	}

	corrected, stats := spelling.ApplyCorrections(text, corrections, log)
	log.DebugContext(ctx, "applied spelling corrections",
		"reported", len(corrections),
		"applied", stats.Applied,
		"skipped", stats.Skipped)

	return corrected, nil
}

// check calls the API with retries and returns the correction records of the
// submitted text.
func (c *Client) check(
	ctx context.Context,
	text string,
	language domain.Language,
	options []domain.Option,
) ([]spelling.Correction, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("lang", language.Code())
	form.Set("options", strconv.Itoa(optionMask(options)))
	body := form.Encode()

	var result []spelling.Correction
	attempt := 0

	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		if attempt > 1 && c.observer != nil {
			c.observer.IncSpellerRetry()
		}

		records, err := c.attempt(ctx, body)
		if err == nil {
			result = records
			return nil
		}

		if errors.Is(err, spelling.ErrTransient) && ctx.Err() == nil {
			c.logger.WarnContext(ctx, "spelling request failed",
				"attempt", attempt,
				"max_attempts", c.maxAttempts,
				"error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if attempt >= c.maxAttempts && errors.Is(err, spelling.ErrTransient) {
			c.logger.ErrorContext(ctx, "spelling request failed after all attempts",
				"attempts", attempt,
				"error", err)
		}
		return nil, err
	}

	return result, nil
}

func (c *Client) backoff() retry.Backoff {
	base := c.retryDelay
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.NewExponential(base)
	b = retry.WithJitterPercent(25, b)
	return retry.WithMaxRetries(uint64(c.maxAttempts-1), b)
}

// attempt performs one HTTP round trip.
func (c *Client) attempt(ctx context.Context, body string) ([]spelling.Correction, error) {
	if c.attemptTTL > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTTL)
		defer cancel()
	}

	start := time.Now()
	records, err := c.do(ctx, body)
	if c.observer != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.observer.ObserveSpellerAttempt(outcome, time.Since(start))
	}
	return records, err
}

func (c *Client) do(ctx context.Context, body string) ([]spelling.Correction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speller request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", spelling.ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s",
			spelling.ErrTransient, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var lists [][]spelling.Correction
	if err := json.NewDecoder(resp.Body).Decode(&lists); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: reading response: %v", spelling.ErrTransient, err)
		}
		return nil, fmt.Errorf("%w: %v", spelling.ErrInvalidResponse, err)
	}

	if len(lists) == 0 {
		return nil, nil
	}
	return lists[0], nil
}

var _ spelling.Speller = (*Client)(nil)
