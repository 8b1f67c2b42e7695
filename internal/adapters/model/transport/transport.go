// Package transport holds the retrying HTTP client shared by the REST model
// providers.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxErrorBody = 2048

type Options struct {
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// NewClient returns a retryablehttp client that retries 429 and 5xx
// responses and logs through logger.
func NewClient(opts Options, logger ports.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = opts.MaxRetries
	if opts.RetryWaitMin > 0 {
		c.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		c.RetryWaitMax = opts.RetryWaitMax
	}
	c.Logger = leveledLogger{logger: logger}
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

// PostJSON marshals body, posts it and returns the raw response. Non-2xx
// responses become UPSTREAM_ERROR carrying the provider's error message.
func PostJSON(ctx context.Context, client *retryablehttp.Client, provider, url string, headers map[string]string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode "+provider+" request")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build "+provider+" request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUpstream, provider+" request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUpstream, "failed to read "+provider+" response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = truncate(string(raw))
		}
		text := fmt.Sprintf("%s returned HTTP %d: %s", provider, resp.StatusCode, msg)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, apperrors.NewUserFacing(apperrors.CodeUpstream, text, "Check the "+provider+" API key.")
		}
		return nil, apperrors.New(apperrors.CodeUpstream, text)
	}
	return raw, nil
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}

type leveledLogger struct {
	logger ports.Logger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (l leveledLogger) Error(msg string, kv ...interface{}) {
	l.logger.Warnf(context.Background(), "http: %s %v", msg, kv)
}

func (l leveledLogger) Info(msg string, kv ...interface{}) {
	l.logger.Debugf(context.Background(), "http: %s %v", msg, kv)
}

func (l leveledLogger) Debug(msg string, kv ...interface{}) {
	l.logger.Debugf(context.Background(), "http: %s %v", msg, kv)
}

func (l leveledLogger) Warn(msg string, kv ...interface{}) {
	l.logger.Warnf(context.Background(), "http: %s %v", msg, kv)
}
