// Package sink routes rendered output to the local filesystem or S3.
package sink

import (
	"context"
	"strings"
	"sync"

	"github.com/olusolaa/oracle-plus/internal/adapters/sink/s3"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
)

// Router picks a sink by target: s3:// URLs go to S3, anything else is a
// local path. The S3 sink is only built on first use so local runs never
// load AWS configuration.
type Router struct {
	local ports.Sink

	newRemote func(ctx context.Context) (ports.Sink, error)
	once      sync.Once
	remote    ports.Sink
	remoteErr error
}

func NewRouter(local ports.Sink, newRemote func(ctx context.Context) (ports.Sink, error)) *Router {
	return &Router{local: local, newRemote: newRemote}
}

func (r *Router) Write(ctx context.Context, target string, body []byte) error {
	if !strings.HasPrefix(target, s3.Scheme) {
		return r.local.Write(ctx, target, body)
	}
	r.once.Do(func() {
		r.remote, r.remoteErr = r.newRemote(ctx)
	})
	if r.remoteErr != nil {
		return r.remoteErr
	}
	return r.remote.Write(ctx, target, body)
}
