package awss3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/common"
)

// ListBuckets returns the names of all buckets owned by the caller.
// A single ListBuckets call is made; S3 returns the full set when no
// MaxBuckets limit is requested.
func ListBuckets(ctx context.Context, client common.S3ReadClient) ([]string, error) {
	out, err := client.ListBuckets(ctx, &s3svc.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list S3 buckets: %w", err)
	}

	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names, nil
}

// CreateBucketInput builds the CreateBucket request for name in region.
// us-east-1 rejects an explicit LocationConstraint, so the configuration is
// only attached for every other region.
func CreateBucketInput(name, region string) *s3svc.CreateBucketInput {
	in := &s3svc.CreateBucketInput{Bucket: aws.String(name)}
	if region != common.DefaultRegion {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	return in
}

// CreateBucket creates name in region. When the bucket already exists and is
// owned by the caller the returned error wraps ErrBucketAlreadyOwned.
func CreateBucket(ctx context.Context, client common.S3WriteClient, name, region string) error {
	if _, err := client.CreateBucket(ctx, CreateBucketInput(name, region)); err != nil {
		if isBucketAlreadyOwned(err) {
			return fmt.Errorf("create bucket %q: %w", name, ErrBucketAlreadyOwned)
		}
		return fmt.Errorf("create bucket %q: %w", name, err)
	}
	return nil
}

// PutPublicAccessBlock replaces the bucket's public access block with pab.
// pab.Configured is ignored; all four flags are always sent explicitly.
func PutPublicAccessBlock(ctx context.Context, client common.S3WriteClient, name string, pab models.PublicAccessBlock) error {
	_, err := client.PutPublicAccessBlock(ctx, &s3svc.PutPublicAccessBlockInput{
		Bucket: aws.String(name),
		PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(pab.BlockPublicAcls),
			IgnorePublicAcls:      aws.Bool(pab.IgnorePublicAcls),
			BlockPublicPolicy:     aws.Bool(pab.BlockPublicPolicy),
			RestrictPublicBuckets: aws.Bool(pab.RestrictPublicBuckets),
		},
	})
	if err != nil {
		return fmt.Errorf("put public access block on %q: %w", name, err)
	}
	return nil
}

// DeletePublicAccessBlock removes the bucket's public access block. When no
// configuration exists the returned error wraps ErrAccessBlockNotFound.
func DeletePublicAccessBlock(ctx context.Context, client common.S3WriteClient, name string) error {
	_, err := client.DeletePublicAccessBlock(ctx, &s3svc.DeletePublicAccessBlockInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if isAccessBlockNotFound(err) {
			return fmt.Errorf("delete public access block on %q: %w", name, ErrAccessBlockNotFound)
		}
		return fmt.Errorf("delete public access block on %q: %w", name, err)
	}
	return nil
}
