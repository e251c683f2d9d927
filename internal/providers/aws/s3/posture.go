package awss3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/common"
)

// GetEncryption reads the bucket's default encryption configuration.
// S3 signals "no configuration" with an error rather than an empty payload;
// that error maps to a zero EncryptionConfig and a nil error. Any other
// failure is returned.
func GetEncryption(ctx context.Context, client common.S3ReadClient, name string) (models.EncryptionConfig, error) {
	out, err := client.GetBucketEncryption(ctx, &s3svc.GetBucketEncryptionInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if isEncryptionNotFound(err) {
			return models.EncryptionConfig{}, nil
		}
		return models.EncryptionConfig{}, fmt.Errorf("get bucket encryption for %q: %w", name, err)
	}
	if out.ServerSideEncryptionConfiguration == nil {
		return models.EncryptionConfig{}, nil
	}

	for _, rule := range out.ServerSideEncryptionConfiguration.Rules {
		def := rule.ApplyServerSideEncryptionByDefault
		if def == nil || def.SSEAlgorithm == "" {
			continue
		}
		return models.EncryptionConfig{Configured: true, Algorithm: string(def.SSEAlgorithm)}, nil
	}
	return models.EncryptionConfig{}, nil
}

// GetPublicAccessBlock reads the bucket-level public access block.
// NoSuchPublicAccessBlockConfiguration maps to Configured == false and a nil
// error. Flags missing from the response read as false.
func GetPublicAccessBlock(ctx context.Context, client common.S3ReadClient, name string) (models.PublicAccessBlock, error) {
	out, err := client.GetPublicAccessBlock(ctx, &s3svc.GetPublicAccessBlockInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if isAccessBlockNotFound(err) {
			return models.PublicAccessBlock{}, nil
		}
		return models.PublicAccessBlock{}, fmt.Errorf("get public access block for %q: %w", name, err)
	}

	pab := models.PublicAccessBlock{Configured: true}
	if cfg := out.PublicAccessBlockConfiguration; cfg != nil {
		pab.BlockPublicAcls = aws.ToBool(cfg.BlockPublicAcls)
		pab.IgnorePublicAcls = aws.ToBool(cfg.IgnorePublicAcls)
		pab.BlockPublicPolicy = aws.ToBool(cfg.BlockPublicPolicy)
		pab.RestrictPublicBuckets = aws.ToBool(cfg.RestrictPublicBuckets)
	}
	return pab, nil
}
