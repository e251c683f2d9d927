// Package checks holds the bucket compliance checks. Checks are pure
// classifiers over a models.BucketPosture; they never call S3. Each check
// names the part of the posture it reads so the auditor can read that part
// just before the check runs.
package checks

import "github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"

// Input is the part of a bucket's posture a check reads.
type Input string

const (
	InputEncryption        Input = "encryption"
	InputPublicAccessBlock Input = "public_access_block"
)

// Check is a single deterministic compliance check.
// Checks must be stateless and must never call the AWS SDK or any external
// service.
type Check interface {
	// ID returns the unique, stable identifier for this check
	// (e.g. "S3_DEFAULT_ENCRYPTION").
	ID() string

	// Name returns the label printed in front of the check's message.
	Name() string

	// Input returns the posture field Evaluate depends on.
	Input() Input

	// Evaluate classifies the posture as PASS, WARN, or FAIL.
	Evaluate(posture models.BucketPosture) models.CheckResult
}

// Registry manages the set of active checks.
type Registry interface {
	// Register adds a check to the registry. Panics on duplicate ID.
	Register(check Check)

	// All returns all registered checks in registration order.
	All() []Check
}

// Default returns a registry holding the encryption check followed by the
// public access block check.
func Default() *DefaultRegistry {
	r := NewDefaultRegistry()
	r.Register(EncryptionCheck{})
	r.Register(PublicAccessBlockCheck{})
	return r
}
