package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

type verdict struct {
	Status string   `json:"status" validate:"required,oneof=pass fail warning"`
	Items  []item   `json:"items" validate:"required,dive"`
	Notes  []string `json:"notes"`
}

type item struct {
	Level string `json:"level" validate:"required,oneof=low high"`
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare object", input: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", input: "Here you go: {\"a\":{\"b\":2}} hope it helps {}", want: `{"a":{"b":2}}`},
		{name: "brace inside string", input: `{"a":"}{"}`, want: `{"a":"}{"}`},
		{name: "escaped quote", input: `{"a":"x\"}"}`, want: `{"a":"x\"}"}`},
		{name: "array", input: `result: [1,2]`, want: `[1,2]`},
		{name: "no json", input: "I cannot help with that", wantErr: true},
		{name: "unterminated", input: `{"a":1`, wantErr: true},
		{name: "bracketed prose before object", input: "Result [analysis v2]:\n{\"a\":[1]}", want: `{"a":[1]}`},
		{name: "braced prose before object", input: "Use {curly} style: {\"a\":1}", want: `{"a":1}`},
		{name: "mismatched closers", input: `{"a":[1}]`, wantErr: true},
		{name: "mismatched then valid", input: `{"a":[1}] then {"b":2}`, want: `{"b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.CodeParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParserDecode(t *testing.T) {
	p := NewParser()

	t.Run("valid", func(t *testing.T) {
		var v verdict
		err := p.Decode("```json\n{\"status\":\"fail\",\"items\":[{\"level\":\"high\"}],\"notes\":[\"x\"]}\n```", &v)
		require.NoError(t, err)
		assert.Equal(t, "fail", v.Status)
		require.Len(t, v.Items, 1)
		assert.Equal(t, "high", v.Items[0].Level)
	})

	t.Run("empty list is allowed", func(t *testing.T) {
		var v verdict
		require.NoError(t, p.Decode(`{"status":"pass","items":[]}`, &v))
		assert.Empty(t, v.Items)
	})

	t.Run("prose brackets before the object", func(t *testing.T) {
		var v verdict
		require.NoError(t, p.Decode("Result [analysis v2]:\n{\"status\":\"pass\",\"items\":[]}", &v))
		assert.Equal(t, "pass", v.Status)
	})

	t.Run("array before the object is skipped for structs", func(t *testing.T) {
		var v verdict
		require.NoError(t, p.Decode("Checked columns [1,2]\n{\"status\":\"warning\",\"items\":[{\"level\":\"low\"}]}", &v))
		assert.Equal(t, "warning", v.Status)
		require.Len(t, v.Items, 1)
	})

	t.Run("later object used when the first fails the schema", func(t *testing.T) {
		var v verdict
		err := p.Decode(`Draft: {"status":"maybe","items":[],"notes":["draft"]} Final: {"status":"fail","items":[{"level":"high"}]}`, &v)
		require.NoError(t, err)
		assert.Equal(t, "fail", v.Status)
		assert.Nil(t, v.Notes)
	})

	t.Run("target untouched on failure", func(t *testing.T) {
		v := verdict{Status: "pass"}
		err := p.Decode(`{"status":"great","items":[]}`, &v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation")
		assert.Equal(t, "pass", v.Status)
	})

	t.Run("non-pointer target", func(t *testing.T) {
		err := p.Decode(`{"status":"pass","items":[]}`, verdict{})
		assert.Equal(t, apperrors.CodeInternal, apperrors.GetCode(err))
	})

	failures := map[string]string{
		"missing status":     `{"items":[]}`,
		"unknown status":     `{"status":"great","items":[]}`,
		"missing list":       `{"status":"pass"}`,
		"unknown item level": `{"status":"fail","items":[{"level":"severe"}]}`,
		"wrong type":         `{"status":1,"items":[]}`,
		"not json":           `status: pass`,
		"mismatched closers": `{"status":"pass","items":[}]`,
	}
	for name, input := range failures {
		t.Run(name, func(t *testing.T) {
			var v verdict
			err := p.Decode(input, &v)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeParse, apperrors.GetCode(err))
		})
	}
}
