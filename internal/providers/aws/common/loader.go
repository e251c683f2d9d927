package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultAWSClientProvider is the production implementation of AWSClientProvider.
// It reads credentials from the standard AWS shared config and credentials files
// (~/.aws/config and ~/.aws/credentials) and the environment using the AWS SDK v2.
//
// Inject a custom ClientFactory via NewDefaultAWSClientProviderWithFactory to
// replace real SDK clients with mocks in unit tests.
type DefaultAWSClientProvider struct {
	factory ClientFactory
}

// NewDefaultAWSClientProvider returns a provider backed by the real AWS SDK.
// The S3 endpoint settings of each LoadOptions are honoured.
func NewDefaultAWSClientProvider() *DefaultAWSClientProvider {
	return &DefaultAWSClientProvider{}
}

// NewDefaultAWSClientProviderWithFactory returns a provider that uses f to
// create its ClientSet. Pass a mock factory in tests.
func NewDefaultAWSClientProviderWithFactory(f ClientFactory) *DefaultAWSClientProvider {
	return &DefaultAWSClientProvider{factory: f}
}

// LoadProfile loads the AWS SDK config for opts and returns a fully
// populated ProfileConfig including the resolved account ID and initialised
// service clients.
func (p *DefaultAWSClientProvider) LoadProfile(ctx context.Context, opts LoadOptions) (*ProfileConfig, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile %q: %w", profileDisplayName(opts.Profile), err)
	}

	// Fall back to us-east-1 when nothing configures a region so that all
	// SDK clients can be constructed successfully.
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	factory := p.factory
	if factory == nil {
		factory = NewClientFactory(opts.Endpoint, opts.UsePathStyle)
	}
	clients := factory(cfg)

	accountID, err := resolveAccountID(ctx, clients.STS)
	if err != nil {
		return nil, fmt.Errorf("resolve account ID for profile %q: %w", profileDisplayName(opts.Profile), err)
	}

	return &ProfileConfig{
		ProfileName: profileDisplayName(opts.Profile),
		AccountID:   accountID,
		Region:      cfg.Region,
		Config:      cfg,
		Clients:     clients,
	}, nil
}

// GetActiveRegions returns all AWS regions that are enabled (opted-in) for
// the account associated with cfg. It uses EC2 DescribeRegions, which is a
// global call and works correctly regardless of the client's home region.
func (p *DefaultAWSClientProvider) GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error) {
	out, err := cfg.Clients.EC2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("describe regions for profile %q: %w", cfg.ProfileName, err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if r.RegionName != nil {
			regions = append(regions, *r.RegionName)
		}
	}
	return regions, nil
}

// profileDisplayName returns a human-readable profile identifier. An empty
// string (the default credential chain) is shown as "default".
func profileDisplayName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

// resolveAccountID calls STS GetCallerIdentity to retrieve the numeric AWS
// account ID for the credentials currently loaded in stsClient.
func resolveAccountID(ctx context.Context, stsClient STSClient) (string, error) {
	out, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return "", errors.New("STS GetCallerIdentity returned nil account")
	}
	return aws.ToString(out.Account), nil
}
