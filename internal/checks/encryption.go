package checks

import "github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"

// EncryptionCheckID identifies EncryptionCheck results.
const EncryptionCheckID = "S3_DEFAULT_ENCRYPTION"

// EncryptionCheck passes when the bucket has a default server-side
// encryption rule. It has no WARN state.
type EncryptionCheck struct{}

func (EncryptionCheck) ID() string    { return EncryptionCheckID }
func (EncryptionCheck) Name() string  { return "Encryption" }
func (EncryptionCheck) Input() Input { return InputEncryption }

// Evaluate reports the algorithm name on PASS.
func (c EncryptionCheck) Evaluate(p models.BucketPosture) models.CheckResult {
	res := models.CheckResult{CheckID: c.ID(), Label: c.Name()}
	if p.Encryption.Configured {
		res.Status = models.StatusPass
		res.Message = p.Encryption.Algorithm
		return res
	}
	res.Status = models.StatusFail
	res.Message = "Not configured"
	return res
}
