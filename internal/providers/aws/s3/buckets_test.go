package awss3

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/s3/fakes3"
)

func TestCreateBucketInput_RegionConstraint(t *testing.T) {
	tests := []struct {
		region         string
		wantConstraint string
	}{
		{region: "us-east-1", wantConstraint: ""},
		{region: "eu-west-1", wantConstraint: "eu-west-1"},
		{region: "ap-southeast-2", wantConstraint: "ap-southeast-2"},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			in := CreateBucketInput("b", tt.region)
			if aws.ToString(in.Bucket) != "b" {
				t.Errorf("bucket: got %q", aws.ToString(in.Bucket))
			}
			if tt.wantConstraint == "" {
				if in.CreateBucketConfiguration != nil {
					t.Errorf("us-east-1 must omit CreateBucketConfiguration; got %+v", in.CreateBucketConfiguration)
				}
				return
			}
			if in.CreateBucketConfiguration == nil {
				t.Fatal("CreateBucketConfiguration: got nil")
			}
			if got := string(in.CreateBucketConfiguration.LocationConstraint); got != tt.wantConstraint {
				t.Errorf("constraint: got %q; want %q", got, tt.wantConstraint)
			}
		})
	}
}

func TestCreateBucket_AcceptedInBothRegionKinds(t *testing.T) {
	for _, region := range []string{"us-east-1", "eu-central-1"} {
		fake := fakes3.New(region)
		if err := CreateBucket(context.Background(), fake, "b-"+region, region); err != nil {
			t.Errorf("%s: unexpected error: %v", region, err)
		}
	}
}

func TestCreateBucket_AlreadyOwned(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.AddBucket(fakes3.Bucket{Name: "mine"})

	err := CreateBucket(context.Background(), fake, "mine", "us-east-1")
	if !errors.Is(err, ErrBucketAlreadyOwned) {
		t.Errorf("want ErrBucketAlreadyOwned; got %v", err)
	}
}

func TestCreateBucket_AlreadyOwnedByCode(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.FailOn("CreateBucket", "mine", fakes3.APIError("BucketAlreadyOwnedByYou"))

	err := CreateBucket(context.Background(), fake, "mine", "us-east-1")
	if !errors.Is(err, ErrBucketAlreadyOwned) {
		t.Errorf("want ErrBucketAlreadyOwned; got %v", err)
	}
}

func TestCreateBucket_OwnedByOtherAccount(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.AddForeignBucket("taken")

	err := CreateBucket(context.Background(), fake, "taken", "us-east-1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrBucketAlreadyOwned) {
		t.Error("foreign bucket must not be reported as already owned")
	}
	var exists *types.BucketAlreadyExists
	if !errors.As(err, &exists) {
		t.Errorf("want wrapped BucketAlreadyExists; got %v", err)
	}
}

func TestPutPublicAccessBlock_SendsAllFlags(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.AddBucket(fakes3.Bucket{Name: "b"})

	pab := models.PublicAccessBlock{BlockPublicAcls: true}
	if err := PutPublicAccessBlock(context.Background(), fake, "b", pab); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, _ := fake.Bucket("b")
	if b.AccessBlock == nil {
		t.Fatal("access block not stored")
	}
	cfg := b.AccessBlock
	for name, p := range map[string]*bool{
		"BlockPublicAcls":       cfg.BlockPublicAcls,
		"IgnorePublicAcls":      cfg.IgnorePublicAcls,
		"BlockPublicPolicy":     cfg.BlockPublicPolicy,
		"RestrictPublicBuckets": cfg.RestrictPublicBuckets,
	} {
		if p == nil {
			t.Errorf("%s sent as nil; want explicit value", name)
		}
	}
	if !aws.ToBool(cfg.BlockPublicAcls) || aws.ToBool(cfg.IgnorePublicAcls) {
		t.Errorf("flags not applied as requested: %+v", cfg)
	}
}

func TestDeletePublicAccessBlock(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.AddBucket(fakes3.Bucket{
		Name:        "b",
		AccessBlock: &types.PublicAccessBlockConfiguration{BlockPublicAcls: aws.Bool(true)},
	})

	if err := DeletePublicAccessBlock(context.Background(), fake, "b"); err != nil {
		t.Fatalf("first delete: unexpected error: %v", err)
	}
	err := DeletePublicAccessBlock(context.Background(), fake, "b")
	if !errors.Is(err, ErrAccessBlockNotFound) {
		t.Errorf("second delete: want ErrAccessBlockNotFound; got %v", err)
	}
}

func TestDeletePublicAccessBlock_OtherError(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.AddBucket(fakes3.Bucket{Name: "b"})
	fake.FailOn("DeletePublicAccessBlock", "b", fakes3.APIError("AccessDenied"))

	err := DeletePublicAccessBlock(context.Background(), fake, "b")
	if err == nil || errors.Is(err, ErrAccessBlockNotFound) {
		t.Errorf("want non-sentinel error; got %v", err)
	}
}

func TestListBuckets(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.AddBucket(fakes3.Bucket{Name: "b2"})
	fake.AddBucket(fakes3.Bucket{Name: "b1"})

	names, err := ListBuckets(context.Background(), fake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "b1" || names[1] != "b2" {
		t.Errorf("names: got %v", names)
	}
	if len(fake.Calls) != 1 {
		t.Errorf("want exactly one ListBuckets call; got %v", fake.Calls)
	}
}

func TestListBuckets_Error(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.FailOn("ListBuckets", "", errors.New("dial tcp: i/o timeout"))

	if _, err := ListBuckets(context.Background(), fake); err == nil {
		t.Fatal("expected error, got nil")
	}
}
