package models

// AccessBlockPolicy selects the public access block posture applied to a
// provisioned bucket.
type AccessBlockPolicy string

const (
	// AccessBlockFull enables all four Block Public Access flags.
	AccessBlockFull AccessBlockPolicy = "full"

	// AccessBlockPartial enables only BlockPublicAcls.
	AccessBlockPartial AccessBlockPolicy = "partial"

	// AccessBlockNone removes any bucket-level configuration.
	AccessBlockNone AccessBlockPolicy = "none"
)

// BucketSpec describes one bucket the provisioner must ensure exists.
type BucketSpec struct {
	Name   string            `json:"name"`
	Policy AccessBlockPolicy `json:"policy"`
}

// AccessBlockOutcome records what happened to a bucket's access block.
type AccessBlockOutcome string

const (
	AccessBlockApplied AccessBlockOutcome = "applied"
	AccessBlockRemoved AccessBlockOutcome = "removed"

	// AccessBlockAbsent means a removal was requested but no configuration
	// existed. It is not an error.
	AccessBlockAbsent AccessBlockOutcome = "absent"

	// AccessBlockSkipped means the step did not complete, either because
	// bucket creation failed or a best-effort removal was rejected.
	AccessBlockSkipped AccessBlockOutcome = "skipped"
)

// ProvisionResult is the outcome for a single BucketSpec.
type ProvisionResult struct {
	Bucket       string             `json:"bucket"`
	Policy       AccessBlockPolicy  `json:"policy"`
	Created      bool               `json:"created"`
	AlreadyOwned bool               `json:"already_owned"`
	AccessBlock  AccessBlockOutcome `json:"access_block"`
	Error        string             `json:"error,omitempty"`
}

// ProvisionReport is the outcome of a provisioning run.
type ProvisionReport struct {
	AccountID string            `json:"account_id"`
	Region    string            `json:"region"`
	Results   []ProvisionResult `json:"results"`
}

// Succeeded returns the number of buckets provisioned without error.
func (r *ProvisionReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Error == "" {
			n++
		}
	}
	return n
}
