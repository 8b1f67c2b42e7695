package file

import (
	"context"
	"os"
	"path/filepath"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

// Sink writes report bytes to the local filesystem, creating parent
// directories as needed.
type Sink struct {
	logger ports.Logger
}

func NewSink(logger ports.Logger) *Sink {
	return &Sink{logger: logger}
}

func (s *Sink) Write(ctx context.Context, target string, body []byte) error {
	if dir := filepath.Dir(target); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapUserFacing(err, apperrors.CodeSinkError,
				"cannot create output directory "+dir, "Check that the output path is writable.")
		}
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return apperrors.WrapUserFacing(err, apperrors.CodeSinkError,
			"cannot write "+target, "Check that the output path is writable.")
	}
	s.logger.Debugf(ctx, "Wrote %d bytes to %s", len(body), target)
	return nil
}
