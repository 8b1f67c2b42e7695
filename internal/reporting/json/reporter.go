package json

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

var api = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Render writes v as two-space indented JSON followed by a newline. Output
// for equal values is byte-identical.
func Render(w io.Writer, v any) error {
	body, err := api.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode JSON report")
	}
	body = append(body, '\n')
	_, err = w.Write(body)
	return err
}
