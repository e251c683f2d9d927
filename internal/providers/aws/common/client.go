package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// DefaultRegion is the region in which S3 rejects an explicit
// LocationConstraint on CreateBucket. It is also the fallback when neither
// the profile nor the caller supplies a region.
const DefaultRegion = "us-east-1"

// ProfileConfig is a resolved AWS profile with its SDK configuration and
// initialised service clients. It is the explicit configuration threaded
// into the provisioner and the auditor in place of ambient lookups.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/credentials or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID for this profile (via STS).
	AccountID string

	// Region is the effective region for this run.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config

	// Clients holds initialised service clients scoped to Region.
	Clients *ClientSet
}

// LoadOptions selects the credentials and region used by LoadProfile.
// Zero values defer to the SDK's default resolution chain.
type LoadOptions struct {
	// Profile is the shared-config profile name. Empty selects the default
	// credential chain.
	Profile string

	// Region overrides the region resolved from the environment or profile.
	Region string

	// Endpoint points the S3 client at an S3-compatible service such as
	// LocalStack or MinIO. Empty uses the AWS endpoint resolver.
	Endpoint string

	// UsePathStyle forces path-style S3 addressing. Usually required
	// together with Endpoint.
	UsePathStyle bool
}

// AWSClientProvider loads AWS configurations and resolves active regions.
// It is the sole entry point for AWS credential and region management.
//
// Implementations must use the AWS SDK v2 only. Never call the aws CLI.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the supplied options.
	LoadProfile(ctx context.Context, opts LoadOptions) (*ProfileConfig, error)

	// GetActiveRegions returns all regions that are enabled for the account
	// associated with cfg.
	GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error)
}
