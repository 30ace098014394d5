package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxRetries   = 3
	defaultRetryDelay   = time.Second
	defaultHTTPTimeout  = 30 * time.Second
	headerAuthorization = "Authorization"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

// Response is the successful outcome of an Execute call
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into out
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to decode response payload")
	}
	return nil
}

// Client executes requests against the MindLit API with automatic credential
// attachment and bounded retries.
type Client struct {
	baseURL    string
	http       *http.Client
	store      CredentialStore
	maxRetries uint64
	retryDelay time.Duration
	logger     Logger

	mu             sync.Mutex
	onAuthRejected func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithCredentialStore(store CredentialStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithRetryDelay overrides the fixed delay between attempts
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxRetries overrides the retry budget. n is the number of retries, so
// the total number of attempts is n+1.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

func WithLogger(l Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: defaultHTTPTimeout},
		store:      NewMemoryStore(),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     defLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Store exposes the credential store so session owners can clear it on logout
func (c *Client) Store() CredentialStore {
	return c.store
}

// OnAuthRejected registers the handler invoked when the server rejects the
// stored credential. The transport layer never decides what logout means; it
// only reports the rejection.
func (c *Client) OnAuthRejected(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthRejected = fn
}

// Execute performs one logical call: marshal the payload, attach the stored
// credential, send, and classify the outcome. Transient failures (no
// response, 5xx) are retried up to the budget with a fixed delay; a 401
// clears the credential store, notifies the rejection handler exactly once
// for this call, and is never retried. Attempts within one call are strictly
// sequential.
func (c *Client) Execute(ctx context.Context, method, path string, payload any) (*Response, error) {
	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to encode request payload")
		}
		body = data
	}

	url := c.baseURL + path

	var resp *Response
	attempt := 0

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewConstant(c.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to build request").
				WithTextCode(TextCodeClientError)
		}

		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		// Credential is read at call time, not at enqueue time, so a clear
		// performed by a concurrent request is honored by the next attempt.
		if token, ok := c.store.Get(); ok {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}

		res, err := c.http.Do(req)
		if err != nil {
			c.logger.Debug("attempt %d: no response: %v", attempt, err)
			return retry.RetryableError(
				goerrors.Wrap(err, goerrors.CategoryOperation, "no response received").
					WithTextCode(TextCodeNetworkError),
			)
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			c.logger.Debug("attempt %d: body read failed: %v", attempt, err)
			return retry.RetryableError(
				goerrors.Wrap(err, goerrors.CategoryOperation, "response interrupted").
					WithTextCode(TextCodeNetworkError),
			)
		}

		switch {
		case res.StatusCode >= http.StatusInternalServerError:
			c.logger.Debug("attempt %d: server error %d", attempt, res.StatusCode)
			return retry.RetryableError(
				goerrors.New(fmt.Sprintf("server error: %d", res.StatusCode), goerrors.CategoryOperation).
					WithTextCode(TextCodeServerError).
					WithMetadata(map[string]any{"status": res.StatusCode}),
			)

		case res.StatusCode == http.StatusUnauthorized:
			c.rejectCredential()
			return goerrors.New("credential rejected", goerrors.CategoryAuth).
				WithTextCode(TextCodeAuthRejected).
				WithMetadata(map[string]any{"status": res.StatusCode})

		case res.StatusCode >= http.StatusBadRequest:
			return goerrors.New(fmt.Sprintf("request rejected: %d", res.StatusCode), goerrors.CategoryBadInput).
				WithTextCode(TextCodeClientError).
				WithMetadata(map[string]any{
					"status":  res.StatusCode,
					"payload": string(data),
				})
		}

		resp = &Response{StatusCode: res.StatusCode, Body: data}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return resp, nil
}

// rejectCredential clears the stored token and notifies the rejection
// handler. Clearing is idempotent; racing rejections are harmless.
func (c *Client) rejectCredential() {
	if err := c.store.Clear(); err != nil {
		c.logger.Error("failed to clear rejected credential: %v", err)
	}

	c.mu.Lock()
	fn := c.onAuthRejected
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}
