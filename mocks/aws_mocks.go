package mocks

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
)

// MockS3Client is a mock implementation of the S3 client used by the s3 sink
type MockS3Client struct {
	mock.Mock
	// Bodies holds the uploaded payloads keyed by object key.
	Bodies map[string][]byte
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params != nil && params.Body != nil && params.Key != nil {
		body, _ := io.ReadAll(params.Body)
		if m.Bodies == nil {
			m.Bodies = map[string][]byte{}
		}
		m.Bodies[*params.Key] = body
	}
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}
