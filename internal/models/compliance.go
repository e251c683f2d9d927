package models

import "time"

// Status is the outcome of a single compliance check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"

	// StatusError marks a check that could not be evaluated because an
	// unexpected provider error occurred. It only appears when the auditor
	// runs with keep-going enabled.
	StatusError Status = "ERROR"
)

// EncryptionConfig is the default server-side encryption state of a bucket.
// Configured is false when S3 reports that no configuration exists.
type EncryptionConfig struct {
	Configured bool   `json:"configured"`
	Algorithm  string `json:"algorithm,omitempty"`
}

// PublicAccessBlock mirrors the bucket-level S3 Block Public Access
// configuration. Flags absent from the S3 response are false.
// Configured is false when S3 reports that no configuration exists.
type PublicAccessBlock struct {
	Configured            bool `json:"configured"`
	BlockPublicAcls       bool `json:"block_public_acls"`
	IgnorePublicAcls      bool `json:"ignore_public_acls"`
	BlockPublicPolicy     bool `json:"block_public_policy"`
	RestrictPublicBuckets bool `json:"restrict_public_buckets"`
}

// EnabledCount returns how many of the four protective flags are set.
func (p PublicAccessBlock) EnabledCount() int {
	n := 0
	for _, on := range []bool{p.BlockPublicAcls, p.IgnorePublicAcls, p.BlockPublicPolicy, p.RestrictPublicBuckets} {
		if on {
			n++
		}
	}
	return n
}

// FullyEnabled reports whether all four flags are set.
func (p PublicAccessBlock) FullyEnabled() bool {
	return p.BlockPublicAcls && p.IgnorePublicAcls && p.BlockPublicPolicy && p.RestrictPublicBuckets
}

// BucketPosture is the security-relevant remote state of one bucket, read
// fresh from S3 for every audit. It is the sole input to the checks.
type BucketPosture struct {
	Name              string            `json:"name"`
	Encryption        EncryptionConfig  `json:"encryption"`
	PublicAccessBlock PublicAccessBlock `json:"public_access_block"`
}

// CheckResult is the classification produced by one check for one bucket.
// Label and Message form the human-readable line "[STATUS] Label: Message".
type CheckResult struct {
	CheckID string `json:"check_id"`
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ComplianceResult is the audit outcome for a single bucket.
type ComplianceResult struct {
	Bucket string        `json:"bucket"`
	Checks []CheckResult `json:"checks"`

	// FullyCompliant is true only when every check reported PASS.
	FullyCompliant bool `json:"fully_compliant"`

	// Error holds the provider error that interrupted this bucket's checks.
	Error string `json:"error,omitempty"`
}

// Check returns the result for checkID, if present.
func (r ComplianceResult) Check(checkID string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.CheckID == checkID {
			return c, true
		}
	}
	return CheckResult{}, false
}

// AuditSummary aggregates counts across all audited buckets.
type AuditSummary struct {
	TotalBuckets     int `json:"total_buckets"`
	CompliantBuckets int `json:"compliant_buckets"`
	ErroredBuckets   int `json:"errored_buckets"`
}

// AuditReport is the complete output of an audit run.
type AuditReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Profile     string             `json:"profile"`
	AccountID   string             `json:"account_id"`
	Region      string             `json:"region"`
	Summary     AuditSummary       `json:"summary"`
	Results     []ComplianceResult `json:"results"`
}
