package anthropic

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	"github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/log"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "compare", gjson.GetBytes(body, "messages.0.content.0.text").String())
		assert.Equal(t, int64(512), gjson.GetBytes(body, "max_tokens").Int())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"{\"status\":\"pass\",\"findings\":[]}"}],
			"stop_reason":"end_turn","stop_sequence":null,
			"usage":{"input_tokens":30,"output_tokens":12}
		}`))
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: "key", Model: "claude-test", BaseURL: srv.URL + "/", MaxRetries: 0}, log.Nop())
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), ports.GenerateRequest{Prompt: "compare", MaxTokens: 512})
	require.NoError(t, err)
	assert.Equal(t, `{"status":"pass","findings":[]}`, resp.Text)
	assert.Equal(t, 30, resp.Usage.InputTokens)
	assert.Equal(t, 12, resp.Usage.OutputTokens)
	assert.True(t, resp.UsageReported)
}

func TestGenerate_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: "bad", BaseURL: srv.URL + "/"}, log.Nop())
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), ports.GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeUpstream, errors.GetCode(err))
	_, _, userFacing := errors.GetUserFacingMessage(err)
	assert.True(t, userFacing)
}
