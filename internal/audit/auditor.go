// Package audit enumerates every bucket visible to the caller and classifies
// each one against the registered compliance checks.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/checks"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/common"
	awss3 "github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/s3"
)

// Listener receives progress while an audit runs. Callbacks are invoked on
// the auditing goroutine, in bucket order.
type Listener interface {
	// Started is called once with the number of buckets found.
	Started(total int)

	// BucketStarted is called before any S3 read for the bucket.
	BucketStarted(name string)

	// CheckEvaluated is called as soon as a single check has a result,
	// before the reads for later checks are made.
	CheckEvaluated(bucket string, result models.CheckResult)

	// BucketAudited is called with the bucket's final result.
	BucketAudited(result models.ComplianceResult)
}

type nopListener struct{}

func (nopListener) Started(int)                               {}
func (nopListener) BucketStarted(string)                      {}
func (nopListener) CheckEvaluated(string, models.CheckResult) {}
func (nopListener) BucketAudited(models.ComplianceResult)     {}

// Options configures a single audit run.
type Options struct {
	// KeepGoing records an unexpected provider error against the bucket and
	// continues with the next one. When false the first such error aborts
	// the run and no report is returned.
	KeepGoing bool

	// Listener receives progress callbacks. Nil disables them.
	Listener Listener

	// Profile, AccountID and Region are copied into the report header.
	Profile   string
	AccountID string
	Region    string
}

// Auditor runs the bucket compliance audit. Buckets are processed strictly
// one after another; no S3 state is cached between runs.
type Auditor struct {
	client   common.S3ReadClient
	registry checks.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// New returns an Auditor reading from client and classifying with registry.
// A nil logger is replaced with a no-op logger.
func New(client common.S3ReadClient, registry checks.Registry, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		client:   client,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Run lists all buckets with a single ListBuckets call and audits each in
// turn. A bucket counts as compliant only when every check reports PASS.
func (a *Auditor) Run(ctx context.Context, opts Options) (*models.AuditReport, error) {
	listener := opts.Listener
	if listener == nil {
		listener = nopListener{}
	}

	names, err := awss3.ListBuckets(ctx, a.client)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("listed buckets", zap.Int("count", len(names)))

	report := &models.AuditReport{
		GeneratedAt: a.now().UTC(),
		Profile:     opts.Profile,
		AccountID:   opts.AccountID,
		Region:      opts.Region,
		Summary:     models.AuditSummary{TotalBuckets: len(names)},
		Results:     make([]models.ComplianceResult, 0, len(names)),
	}
	listener.Started(len(names))

	for _, name := range names {
		listener.BucketStarted(name)

		result, err := a.auditBucket(ctx, name, listener)
		if err != nil {
			if !opts.KeepGoing {
				return nil, err
			}
			a.logger.Warn("bucket audit failed, continuing",
				zap.String("bucket", name), zap.Error(err))
			result = a.erroredResult(result, err, listener)
			report.Summary.ErroredBuckets++
		}

		if result.FullyCompliant {
			report.Summary.CompliantBuckets++
		}
		report.Results = append(report.Results, result)
		listener.BucketAudited(result)
	}

	a.logger.Debug("audit complete",
		zap.Int("total", report.Summary.TotalBuckets),
		zap.Int("compliant", report.Summary.CompliantBuckets),
		zap.Int("errored", report.Summary.ErroredBuckets))
	return report, nil
}

// auditBucket evaluates the registered checks in order. Each posture input is
// read the first time a check needs it, and every result reaches the listener
// before the next read. On error the returned result holds the checks
// evaluated so far.
func (a *Auditor) auditBucket(ctx context.Context, name string, listener Listener) (models.ComplianceResult, error) {
	result := models.ComplianceResult{Bucket: name}
	posture := models.BucketPosture{Name: name}
	read := make(map[checks.Input]bool)

	for _, c := range a.registry.All() {
		if !read[c.Input()] {
			if err := a.readInput(ctx, c.Input(), &posture); err != nil {
				return result, err
			}
			read[c.Input()] = true
		}
		res := c.Evaluate(posture)
		result.Checks = append(result.Checks, res)
		listener.CheckEvaluated(name, res)
	}

	a.logger.Debug("collected bucket posture",
		zap.String("bucket", name),
		zap.Bool("encryption", posture.Encryption.Configured),
		zap.Bool("public_access_block", posture.PublicAccessBlock.Configured),
		zap.Int("flags_enabled", posture.PublicAccessBlock.EnabledCount()))

	result.FullyCompliant = allPassed(result.Checks)
	return result, nil
}

// readInput fills the part of posture named by in.
func (a *Auditor) readInput(ctx context.Context, in checks.Input, posture *models.BucketPosture) error {
	switch in {
	case checks.InputEncryption:
		enc, err := awss3.GetEncryption(ctx, a.client, posture.Name)
		if err != nil {
			return err
		}
		posture.Encryption = enc
	case checks.InputPublicAccessBlock:
		pab, err := awss3.GetPublicAccessBlock(ctx, a.client, posture.Name)
		if err != nil {
			return err
		}
		posture.PublicAccessBlock = pab
	default:
		return fmt.Errorf("no reader for check input %q", in)
	}
	return nil
}

// erroredResult marks every check without a result as ERROR and reports
// those to the listener. Results already evaluated are kept.
func (a *Auditor) erroredResult(partial models.ComplianceResult, err error, listener Listener) models.ComplianceResult {
	for _, c := range a.registry.All()[len(partial.Checks):] {
		res := models.CheckResult{
			CheckID: c.ID(),
			Label:   c.Name(),
			Status:  models.StatusError,
			Message: "Check could not run",
		}
		partial.Checks = append(partial.Checks, res)
		listener.CheckEvaluated(partial.Bucket, res)
	}
	partial.FullyCompliant = false
	partial.Error = err.Error()
	return partial
}

func allPassed(results []models.CheckResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Status != models.StatusPass {
			return false
		}
	}
	return true
}
