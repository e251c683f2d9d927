package provision

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
)

// Bucket name prefixes. The account ID is appended to make each name
// globally unique without operator input.
const (
	PrefixCompliant = "grce-audit-compliant"
	PrefixNoBlock   = "grce-audit-no-block"
	PrefixPartial   = "grce-audit-partial"
)

// BucketName returns "<prefix>-<accountID>".
func BucketName(prefix, accountID string) string {
	return fmt.Sprintf("%s-%s", prefix, accountID)
}

// DefaultSpecs returns the three test buckets in provisioning order:
//
//	grce-audit-compliant-<id>  full     audits as PASS
//	grce-audit-no-block-<id>   none     audits as FAIL
//	grce-audit-partial-<id>    partial  audits as WARN
func DefaultSpecs(accountID string) []models.BucketSpec {
	return []models.BucketSpec{
		{Name: BucketName(PrefixCompliant, accountID), Policy: models.AccessBlockFull},
		{Name: BucketName(PrefixNoBlock, accountID), Policy: models.AccessBlockNone},
		{Name: BucketName(PrefixPartial, accountID), Policy: models.AccessBlockPartial},
	}
}

// AccessBlockFor returns the flags applied for policy. The second result is
// false for AccessBlockNone, which removes the configuration instead.
func AccessBlockFor(policy models.AccessBlockPolicy) (models.PublicAccessBlock, bool) {
	switch policy {
	case models.AccessBlockFull:
		return models.PublicAccessBlock{
			Configured:            true,
			BlockPublicAcls:       true,
			IgnorePublicAcls:      true,
			BlockPublicPolicy:     true,
			RestrictPublicBuckets: true,
		}, true
	case models.AccessBlockPartial:
		return models.PublicAccessBlock{
			Configured:      true,
			BlockPublicAcls: true,
		}, true
	default:
		return models.PublicAccessBlock{}, false
	}
}
