// Package awss3 wraps the S3 control-plane calls used by the provisioner and
// the auditor. It translates the S3 error codes that signal "not configured"
// or "already owned" into posture values and sentinel errors so callers never
// inspect SDK error types themselves.
package awss3

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrBucketAlreadyOwned is returned by CreateBucket when the bucket
	// already exists and belongs to the caller.
	ErrBucketAlreadyOwned = errors.New("bucket already exists and is owned by you")

	// ErrAccessBlockNotFound is returned by DeletePublicAccessBlock when the
	// bucket has no public access block configuration to remove.
	ErrAccessBlockNotFound = errors.New("public access block configuration not found")
)

// S3 error codes for the outcomes that are expected rather than faults.
const (
	codeBucketAlreadyOwned      = "BucketAlreadyOwnedByYou"
	codeNoSuchPublicAccessBlock = "NoSuchPublicAccessBlockConfiguration"
	codeEncryptionNotFound      = "ServerSideEncryptionConfigurationNotFoundError"
)

// errorCode returns the API error code carried by err, or "" when err is not
// an API error (network failures, cancelled contexts).
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func isBucketAlreadyOwned(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return true
	}
	return errorCode(err) == codeBucketAlreadyOwned
}

func isAccessBlockNotFound(err error) bool {
	return errorCode(err) == codeNoSuchPublicAccessBlock
}

func isEncryptionNotFound(err error) bool {
	return errorCode(err) == codeEncryptionNotFound
}
