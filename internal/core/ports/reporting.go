package ports

import "context"

//go:generate mockery --name Sink --output ./mocks --outpkg mocks --case underscore
type Sink interface {
	Write(ctx context.Context, target string, body []byte) error
}
