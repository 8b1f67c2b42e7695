package s3

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/olusolaa/oracle-plus/internal/errors"
)

// HandleAWSError maps an S3 API error for bucket/key to an application error.
func HandleAWSError(ctx context.Context, bucket, key string, err error) error {
	if err == nil {
		return errors.New(errors.CodeInternal, fmt.Sprintf("unexpected nil error writing s3://%s/%s", bucket, key))
	}

	if ctx.Err() != nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeSinkError,
			fmt.Sprintf("upload to s3://%s/%s was cancelled", bucket, key))
	}

	code := errorCode(err)
	switch {
	case isAuthCode(code) || strings.Contains(err.Error(), "AccessDenied"):
		return errors.WrapUserFacing(err, errors.CodeSinkAuthError,
			fmt.Sprintf("access denied writing s3://%s/%s", bucket, key),
			"Check the AWS credentials and the bucket policy (s3:PutObject).")
	case code == "NoSuchBucket":
		return errors.WrapUserFacing(err, errors.CodeSinkError,
			fmt.Sprintf("bucket %q does not exist", bucket),
			"Create the bucket or fix the s3:// output URL.")
	}

	return errors.Wrap(err, errors.CodeSinkError, fmt.Sprintf("failed to upload s3://%s/%s", bucket, key))
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) && apiErr != nil {
		return apiErr.ErrorCode()
	}
	return ""
}

func isAuthCode(code string) bool {
	switch code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "AllAccessDisabled":
		return true
	}
	return false
}
