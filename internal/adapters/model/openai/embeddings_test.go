package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/log"
)

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "table: t\n\nx", gjson.GetBytes(body, "input").String())
		assert.Equal(t, DefaultModel, gjson.GetBytes(body, "model").String())
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,-0.25,1]}]}`))
	}))
	defer srv.Close()

	e, err := NewEmbedder(Config{APIKey: "sk", BaseURL: srv.URL}, log.Nop())
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "table: t\n\nx")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, vec)
}

func TestEmbed_MissingEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	e, err := NewEmbedder(Config{APIKey: "sk", BaseURL: srv.URL}, log.Nop())
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "x")
	assert.Equal(t, errors.CodeUpstream, errors.GetCode(err))
}
