package s3

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	"github.com/olusolaa/oracle-plus/internal/errors"
)

const Scheme = "s3://"

// ClientInterface is the part of the S3 API the sink needs.
type ClientInterface interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

type Sink struct {
	client ClientInterface
	logger ports.Logger
}

type Option func(*Sink)

// WithClient overrides the S3 client built from the default AWS config.
func WithClient(client ClientInterface) Option {
	return func(s *Sink) {
		if client != nil {
			s.client = client
		}
	}
}

func NewSink(ctx context.Context, cfg Config, logger ports.Logger, opts ...Option) (*Sink, error) {
	s := &Sink{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.client != nil {
		return s, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeConfigValidation, "failed to load default AWS config",
			"Configure AWS credentials (environment, shared config or instance role) to write s3:// outputs.")
	}
	s.client = s3.NewFromConfig(awsCfg)
	return s, nil
}

// ParseURL splits s3://bucket/key into its parts.
func ParseURL(target string) (bucket, key string, err error) {
	if !strings.HasPrefix(target, Scheme) {
		return "", "", errors.New(errors.CodeUsage, fmt.Sprintf("%q is not an s3:// URL", target))
	}
	rest := strings.TrimPrefix(target, Scheme)
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", errors.NewUserFacing(errors.CodeUsage,
			fmt.Sprintf("invalid S3 output %q", target), "Use s3://<bucket>/<key>.")
	}
	return bucket, key, nil
}

func (s *Sink) Write(ctx context.Context, target string, body []byte) error {
	bucket, key, err := ParseURL(target)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if ct := contentType(key); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return HandleAWSError(ctx, bucket, key, err)
	}
	s.logger.Infof(ctx, "Uploaded %d bytes to s3://%s/%s", len(body), bucket, key)
	return nil
}

func contentType(key string) string {
	switch ext := path.Ext(key); ext {
	case ".md":
		return "text/markdown; charset=utf-8"
	case "":
		return ""
	default:
		return mime.TypeByExtension(ext)
	}
}
