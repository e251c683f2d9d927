package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ---------------------------------------------------------------------------
// Per-service client interfaces
//
// Each interface covers only the operations used by this project. Using narrow
// interfaces instead of the full SDK clients makes mocking in unit tests
// trivial: create a struct that satisfies the interface and return canned data.
// ---------------------------------------------------------------------------

// STSClient is the subset of STS operations used by the loader.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// EC2RegionClient is the subset of EC2 operations used for region discovery.
type EC2RegionClient interface {
	DescribeRegions(
		ctx context.Context,
		params *ec2.DescribeRegionsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeRegionsOutput, error)
}

// S3ReadClient covers the read-only S3 operations used by the auditor.
type S3ReadClient interface {
	ListBuckets(
		ctx context.Context,
		params *s3.ListBucketsInput,
		optFns ...func(*s3.Options),
	) (*s3.ListBucketsOutput, error)

	GetBucketEncryption(
		ctx context.Context,
		params *s3.GetBucketEncryptionInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketEncryptionOutput, error)

	GetPublicAccessBlock(
		ctx context.Context,
		params *s3.GetPublicAccessBlockInput,
		optFns ...func(*s3.Options),
	) (*s3.GetPublicAccessBlockOutput, error)
}

// S3WriteClient covers the mutating S3 operations used by the provisioner.
type S3WriteClient interface {
	CreateBucket(
		ctx context.Context,
		params *s3.CreateBucketInput,
		optFns ...func(*s3.Options),
	) (*s3.CreateBucketOutput, error)

	PutPublicAccessBlock(
		ctx context.Context,
		params *s3.PutPublicAccessBlockInput,
		optFns ...func(*s3.Options),
	) (*s3.PutPublicAccessBlockOutput, error)

	DeletePublicAccessBlock(
		ctx context.Context,
		params *s3.DeletePublicAccessBlockInput,
		optFns ...func(*s3.Options),
	) (*s3.DeletePublicAccessBlockOutput, error)
}

// S3Client is the union of the read and write S3 interfaces.
type S3Client interface {
	S3ReadClient
	S3WriteClient
}

// ---------------------------------------------------------------------------
// ClientSet and ClientFactory
// ---------------------------------------------------------------------------

// ClientSet holds fully initialised AWS service clients for a given profile
// and region. All fields are interfaces so they can be replaced with mocks in
// tests without importing the AWS SDK in test files.
type ClientSet struct {
	STS STSClient
	EC2 EC2RegionClient
	S3  S3Client
}

// ClientFactory creates a ClientSet from an aws.Config.
// Swap this in tests to inject mock clients.
type ClientFactory func(cfg aws.Config) *ClientSet

// NewClientFactory returns a ClientFactory whose S3 client targets endpoint
// when it is non-empty. STS and EC2 always use the AWS endpoint resolver.
func NewClientFactory(endpoint string, usePathStyle bool) ClientFactory {
	return func(cfg aws.Config) *ClientSet {
		return &ClientSet{
			STS: sts.NewFromConfig(cfg),
			EC2: ec2.NewFromConfig(cfg),
			S3: s3.NewFromConfig(cfg, func(o *s3.Options) {
				if endpoint != "" {
					o.BaseEndpoint = aws.String(endpoint)
				}
				o.UsePathStyle = usePathStyle
			}),
		}
	}
}
