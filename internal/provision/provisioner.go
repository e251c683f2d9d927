// Package provision creates the test buckets used to exercise the auditor,
// each with a different public access block posture.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/common"
	awss3 "github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/s3"
)

// Target is the account and region the buckets are created in.
type Target struct {
	AccountID string
	Region    string
}

// Options configures a provisioning run.
type Options struct {
	// KeepGoing records an unexpected provider error against the bucket and
	// continues with the next spec. When false the first such error aborts
	// the run.
	KeepGoing bool
}

// Provisioner ensures each BucketSpec exists with its access block posture.
// Progress lines are written to w as each step completes.
type Provisioner struct {
	client common.S3WriteClient
	w      io.Writer
	logger *zap.Logger
}

// New returns a Provisioner. A nil logger is replaced with a no-op logger.
func New(client common.S3WriteClient, w io.Writer, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{client: client, w: w, logger: logger}
}

// Run provisions specs in order. Creating a bucket the caller already owns is
// not an error, so re-running re-applies every access block configuration.
func (p *Provisioner) Run(ctx context.Context, target Target, specs []models.BucketSpec, opts Options) (*models.ProvisionReport, error) {
	fmt.Fprintf(p.w, "Region: %s\n", target.Region)
	fmt.Fprintf(p.w, "Account ID: %s\n", target.AccountID)
	fmt.Fprintf(p.w, "Will create %d buckets.\n", len(specs))

	report := &models.ProvisionReport{
		AccountID: target.AccountID,
		Region:    target.Region,
		Results:   make([]models.ProvisionResult, 0, len(specs)),
	}

	for _, spec := range specs {
		res, err := p.provisionBucket(ctx, target.Region, spec)
		if err != nil {
			if !opts.KeepGoing {
				return nil, err
			}
			p.logger.Warn("bucket provisioning failed, continuing",
				zap.String("bucket", spec.Name), zap.Error(err))
			res.Error = err.Error()
			fmt.Fprintf(p.w, "  ! Failed: %s\n", err)
		}
		report.Results = append(report.Results, res)
	}

	fmt.Fprintf(p.w, "Provisioned %d of %d buckets.\n", report.Succeeded(), len(specs))
	return report, nil
}

// provisionBucket creates spec.Name and applies its access block policy.
// The returned result is meaningful even when err is non-nil.
func (p *Provisioner) provisionBucket(ctx context.Context, region string, spec models.BucketSpec) (models.ProvisionResult, error) {
	res := models.ProvisionResult{
		Bucket:      spec.Name,
		Policy:      spec.Policy,
		AccessBlock: models.AccessBlockSkipped,
	}

	err := awss3.CreateBucket(ctx, p.client, spec.Name, region)
	switch {
	case err == nil:
		res.Created = true
		fmt.Fprintf(p.w, "Created %s.\n", spec.Name)
	case errors.Is(err, awss3.ErrBucketAlreadyOwned):
		res.AlreadyOwned = true
		fmt.Fprintf(p.w, "Already exists: %s\n", spec.Name)
	default:
		return res, err
	}

	outcome, err := p.applyAccessBlock(ctx, spec)
	if err != nil {
		return res, err
	}
	res.AccessBlock = outcome
	return res, nil
}

// applyAccessBlock puts or removes the bucket's public access block.
// Removal is best effort: a missing configuration is the distinguished
// AccessBlockAbsent outcome and any other removal failure is logged and
// reported as AccessBlockSkipped without failing the bucket.
func (p *Provisioner) applyAccessBlock(ctx context.Context, spec models.BucketSpec) (models.AccessBlockOutcome, error) {
	switch spec.Policy {
	case models.AccessBlockFull, models.AccessBlockPartial:
		pab, _ := AccessBlockFor(spec.Policy)
		if err := awss3.PutPublicAccessBlock(ctx, p.client, spec.Name, pab); err != nil {
			return models.AccessBlockSkipped, err
		}
		if spec.Policy == models.AccessBlockFull {
			fmt.Fprintln(p.w, "    → Full public access block enabled")
		} else {
			fmt.Fprintln(p.w, "  → Partial public access block (will trigger WARN)")
		}
		return models.AccessBlockApplied, nil

	case models.AccessBlockNone:
		err := awss3.DeletePublicAccessBlock(ctx, p.client, spec.Name)
		switch {
		case err == nil:
			fmt.Fprintln(p.w, "  → Public access block removed (will trigger FAIL)")
			return models.AccessBlockRemoved, nil
		case errors.Is(err, awss3.ErrAccessBlockNotFound):
			p.logger.Debug("no public access block to remove", zap.String("bucket", spec.Name))
			return models.AccessBlockAbsent, nil
		default:
			p.logger.Warn("public access block removal failed",
				zap.String("bucket", spec.Name), zap.Error(err))
			return models.AccessBlockSkipped, nil
		}

	default:
		return models.AccessBlockSkipped, fmt.Errorf("bucket %q: unknown access block policy %q", spec.Name, spec.Policy)
	}
}
