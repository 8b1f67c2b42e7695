package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsInnermostAppError(t *testing.T) {
	inner := New(CodeNotFound, "specification not found")
	wrapped := Wrap(fmt.Errorf("lookup: %w", inner), CodeStoreError, "store failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, CodeNotFound, wrapped.Code)
	assert.Nil(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestWrapAs_Reclassifies(t *testing.T) {
	inner := New(CodeStoreError, "connection refused")
	outer := WrapAs(inner, CodeValidationWrite, "failed to persist validation")

	assert.Equal(t, CodeValidationWrite, GetCode(outer))
	assert.True(t, Is(outer, CodeStoreError))
	assert.True(t, Is(outer, CodeValidationWrite))
	assert.False(t, Is(outer, CodeParse))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeParse, GetCode(New(CodeParse, "bad json")))
}

func TestGetUserFacingMessage(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantMsg        string
		wantSuggestion string
		wantFound      bool
	}{
		{
			name:           "user facing at top",
			err:            NewUserFacing(CodeUsage, "must specify --spec-id or --all", "Pass one of the flags."),
			wantMsg:        "must specify --spec-id or --all",
			wantSuggestion: "Pass one of the flags.",
			wantFound:      true,
		},
		{
			name:      "user facing nested",
			err:       WrapAs(NewUserFacing(CodeNotImplemented, "html not yet implemented", ""), CodeInternal, "report"),
			wantMsg:   "html not yet implemented",
			wantFound: true,
		},
		{
			name:           "plain error",
			err:            stderrors.New("boom"),
			wantMsg:        "boom",
			wantSuggestion: "Re-run with --log-level debug for more details.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, suggestion, found := GetUserFacingMessage(tt.err)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, tt.wantSuggestion, suggestion)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}
