package checks

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
)

// PublicAccessBlockCheckID identifies PublicAccessBlockCheck results.
const PublicAccessBlockCheckID = "S3_PUBLIC_ACCESS_BLOCK"

// PublicAccessBlockCheck requires all four Block Public Access flags.
//
//	not configured      FAIL
//	all four enabled    PASS
//	anything else       WARN (including zero flags enabled)
type PublicAccessBlockCheck struct{}

func (PublicAccessBlockCheck) ID() string   { return PublicAccessBlockCheckID }
func (PublicAccessBlockCheck) Name() string { return "Public Access Block" }
func (PublicAccessBlockCheck) Input() Input { return InputPublicAccessBlock }

func (c PublicAccessBlockCheck) Evaluate(p models.BucketPosture) models.CheckResult {
	res := models.CheckResult{CheckID: c.ID(), Label: c.Name()}
	pab := p.PublicAccessBlock
	switch {
	case !pab.Configured:
		res.Status = models.StatusFail
		res.Message = "Not configured"
	case pab.FullyEnabled():
		res.Status = models.StatusPass
		res.Message = "Enabled"
	default:
		res.Status = models.StatusWarn
		res.Message = "Partially configured"
		res.Detail = fmt.Sprintf("%d of 4 settings enabled", pab.EnabledCount())
	}
	return res
}
