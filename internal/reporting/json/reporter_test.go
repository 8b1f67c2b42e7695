package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
)

func TestRender_IsStableAndIndented(t *testing.T) {
	results := []domain.CheckResult{
		{SpecID: "1", Spec: "profiles", Status: domain.StatusPass},
		{SpecID: "2", Spec: "a<b>", Status: domain.StatusFail, Findings: []domain.Finding{
			{Type: domain.FindingMissing, Entity: "col", Expected: "x", Actual: "y", Severity: domain.SeverityLow},
		}},
	}

	var first, second bytes.Buffer
	require.NoError(t, Render(&first, results))
	require.NoError(t, Render(&second, results))

	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Contains(t, first.String(), "[\n  {\n    \"specId\": \"1\",")
	assert.Contains(t, first.String(), `"spec": "a<b>"`)
	assert.True(t, bytes.HasSuffix(first.Bytes(), []byte("]\n")))
}

func TestRender_Map(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, map[string]int{"b": 2, "a": 1}))
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}\n", buf.String())
}
