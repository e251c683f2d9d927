// Package fakes3 provides an in-memory S3 control plane that satisfies
// common.S3Client. It models the behaviours the provisioner and auditor
// depend on: region constraint validation on CreateBucket, "already owned"
// signalling, and "not configured" errors for encryption and public access
// block reads.
package fakes3

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Bucket is the remote state the fake keeps per bucket.
type Bucket struct {
	Name string

	// SSEAlgorithm is the default encryption algorithm, e.g. "AES256".
	// Empty means no encryption configuration exists.
	SSEAlgorithm string

	// AccessBlock is nil when no public access block is configured.
	AccessBlock *types.PublicAccessBlockConfiguration
}

// Client is an in-memory S3 endpoint bound to a single region.
type Client struct {
	// Region is the region the client was configured for.
	Region string

	mu      sync.Mutex
	buckets map[string]*Bucket
	foreign map[string]bool
	fail    map[string]error

	// Calls records "Operation bucket" for every request, in order.
	Calls []string

	// CreateInputs records every CreateBucket request as received.
	CreateInputs []*s3.CreateBucketInput
}

// New returns an empty fake bound to region.
func New(region string) *Client {
	return &Client{
		Region:  region,
		buckets: make(map[string]*Bucket),
		foreign: make(map[string]bool),
		fail:    make(map[string]error),
	}
}

// AddBucket seeds a bucket owned by the caller.
func (c *Client) AddBucket(b Bucket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := b
	c.buckets[b.Name] = &cp
}

// AddForeignBucket reserves name as owned by another account.
func (c *Client) AddForeignBucket(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.foreign[name] = true
}

// FailOn makes the next and all later calls of operation on bucket return
// err. Use an empty bucket for ListBuckets.
func (c *Client) FailOn(operation, bucket string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail[operation+" "+bucket] = err
}

// Bucket returns a copy of the stored bucket state.
func (c *Client) Bucket(name string) (Bucket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buckets[name]
	if !ok {
		return Bucket{}, false
	}
	return *b, true
}

// APIError builds a client-fault smithy error carrying code.
func APIError(code string) error {
	return &smithy.GenericAPIError{
		Code:    code,
		Message: code,
		Fault:   smithy.FaultClient,
	}
}

func (c *Client) record(operation, bucket string) error {
	c.Calls = append(c.Calls, operation+" "+bucket)
	return c.fail[operation+" "+bucket]
}

func (c *Client) lookup(name string) (*Bucket, error) {
	b, ok := c.buckets[name]
	if !ok {
		return nil, &types.NoSuchBucket{Message: aws.String(fmt.Sprintf("bucket %s does not exist", name))}
	}
	return b, nil
}

func (c *Client) ListBuckets(_ context.Context, _ *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record("ListBuckets", ""); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(c.buckets))
	for name := range c.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &s3.ListBucketsOutput{}
	for _, name := range names {
		out.Buckets = append(out.Buckets, types.Bucket{Name: aws.String(name)})
	}
	return out, nil
}

func (c *Client) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := aws.ToString(in.Bucket)
	c.CreateInputs = append(c.CreateInputs, in)
	if err := c.record("CreateBucket", name); err != nil {
		return nil, err
	}

	var constraint string
	if in.CreateBucketConfiguration != nil {
		constraint = string(in.CreateBucketConfiguration.LocationConstraint)
	}
	switch {
	case c.Region == "us-east-1" && constraint != "":
		return nil, APIError("InvalidLocationConstraint")
	case c.Region != "us-east-1" && constraint != c.Region:
		return nil, APIError("IllegalLocationConstraintException")
	}

	if c.foreign[name] {
		return nil, &types.BucketAlreadyExists{}
	}
	if _, ok := c.buckets[name]; ok {
		return nil, &types.BucketAlreadyOwnedByYou{}
	}
	c.buckets[name] = &Bucket{Name: name}
	return &s3.CreateBucketOutput{Location: aws.String("/" + name)}, nil
}

func (c *Client) PutPublicAccessBlock(_ context.Context, in *s3.PutPublicAccessBlockInput, _ ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := aws.ToString(in.Bucket)
	if err := c.record("PutPublicAccessBlock", name); err != nil {
		return nil, err
	}
	b, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	cfg := *in.PublicAccessBlockConfiguration
	b.AccessBlock = &cfg
	return &s3.PutPublicAccessBlockOutput{}, nil
}

func (c *Client) DeletePublicAccessBlock(_ context.Context, in *s3.DeletePublicAccessBlockInput, _ ...func(*s3.Options)) (*s3.DeletePublicAccessBlockOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := aws.ToString(in.Bucket)
	if err := c.record("DeletePublicAccessBlock", name); err != nil {
		return nil, err
	}
	b, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if b.AccessBlock == nil {
		return nil, APIError("NoSuchPublicAccessBlockConfiguration")
	}
	b.AccessBlock = nil
	return &s3.DeletePublicAccessBlockOutput{}, nil
}

func (c *Client) GetPublicAccessBlock(_ context.Context, in *s3.GetPublicAccessBlockInput, _ ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := aws.ToString(in.Bucket)
	if err := c.record("GetPublicAccessBlock", name); err != nil {
		return nil, err
	}
	b, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if b.AccessBlock == nil {
		return nil, APIError("NoSuchPublicAccessBlockConfiguration")
	}
	cfg := *b.AccessBlock
	return &s3.GetPublicAccessBlockOutput{PublicAccessBlockConfiguration: &cfg}, nil
}

func (c *Client) GetBucketEncryption(_ context.Context, in *s3.GetBucketEncryptionInput, _ ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := aws.ToString(in.Bucket)
	if err := c.record("GetBucketEncryption", name); err != nil {
		return nil, err
	}
	b, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if b.SSEAlgorithm == "" {
		return nil, APIError("ServerSideEncryptionConfigurationNotFoundError")
	}
	return &s3.GetBucketEncryptionOutput{
		ServerSideEncryptionConfiguration: &types.ServerSideEncryptionConfiguration{
			Rules: []types.ServerSideEncryptionRule{{
				ApplyServerSideEncryptionByDefault: &types.ServerSideEncryptionByDefault{
					SSEAlgorithm: types.ServerSideEncryption(b.SSEAlgorithm),
				},
			}},
		},
	}, nil
}
