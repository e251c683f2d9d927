package checks

import (
	"testing"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
)

func TestPublicAccessBlockCheck_ID(t *testing.T) {
	if (PublicAccessBlockCheck{}).ID() != "S3_PUBLIC_ACCESS_BLOCK" {
		t.Error("unexpected check ID")
	}
}

func TestPublicAccessBlockCheck_NotConfiguredFails(t *testing.T) {
	res := PublicAccessBlockCheck{}.Evaluate(models.BucketPosture{Name: "b"})
	if res.Status != models.StatusFail {
		t.Errorf("status: got %s; want FAIL", res.Status)
	}
	if res.Message != "Not configured" {
		t.Errorf("message: got %q", res.Message)
	}
}

func TestPublicAccessBlockCheck_AllFlagsPass(t *testing.T) {
	p := models.BucketPosture{PublicAccessBlock: models.PublicAccessBlock{
		Configured:            true,
		BlockPublicAcls:       true,
		IgnorePublicAcls:      true,
		BlockPublicPolicy:     true,
		RestrictPublicBuckets: true,
	}}
	res := PublicAccessBlockCheck{}.Evaluate(p)
	if res.Status != models.StatusPass || res.Message != "Enabled" {
		t.Errorf("got %s %q; want PASS Enabled", res.Status, res.Message)
	}
}

// Every combination with at least one flag off must be WARN, never PASS or
// FAIL, as long as a configuration exists.
func TestPublicAccessBlockCheck_AnyFlagOffWarns(t *testing.T) {
	for mask := 0; mask < 15; mask++ {
		pab := models.PublicAccessBlock{
			Configured:            true,
			BlockPublicAcls:       mask&1 != 0,
			IgnorePublicAcls:      mask&2 != 0,
			BlockPublicPolicy:     mask&4 != 0,
			RestrictPublicBuckets: mask&8 != 0,
		}
		res := PublicAccessBlockCheck{}.Evaluate(models.BucketPosture{PublicAccessBlock: pab})
		if res.Status != models.StatusWarn {
			t.Errorf("mask %04b: status %s; want WARN", mask, res.Status)
		}
		if res.Message != "Partially configured" {
			t.Errorf("mask %04b: message %q", mask, res.Message)
		}
	}
}

func TestPublicAccessBlockCheck_DetailCountsFlags(t *testing.T) {
	tests := []struct {
		name string
		pab  models.PublicAccessBlock
		want string
	}{
		{"none set", models.PublicAccessBlock{Configured: true}, "0 of 4 settings enabled"},
		{"one set", models.PublicAccessBlock{Configured: true, BlockPublicAcls: true}, "1 of 4 settings enabled"},
		{"three set", models.PublicAccessBlock{Configured: true, BlockPublicAcls: true, IgnorePublicAcls: true, BlockPublicPolicy: true}, "3 of 4 settings enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := PublicAccessBlockCheck{}.Evaluate(models.BucketPosture{PublicAccessBlock: tt.pab})
			if res.Detail != tt.want {
				t.Errorf("detail: got %q; want %q", res.Detail, tt.want)
			}
		})
	}
}
