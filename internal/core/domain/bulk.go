package domain

// ItemFailure is one entity a bulk operation could not update.
type ItemFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult summarizes a per-entity fan-out. Successes are never rolled back
// because of failures elsewhere in the batch.
type BulkResult struct {
	Updated []string      `json:"updated"`
	Failed  []ItemFailure `json:"failed"`
	// Err joins the per-item errors for errors.Is checks. Nil when nothing failed.
	Err error `json:"-"`
}

func (r BulkResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// BackfillReport summarizes one run of the data migration.
type BackfillReport struct {
	DryRun                  bool          `json:"dryRun"`
	CompanyStatusesFilled   int64         `json:"companyStatusesFilled"`
	EmployeeStatusesFilled  int64         `json:"employeeStatusesFilled"`
	CompanyCodesFilled      []string      `json:"companyCodesFilled"`
	EmployeeCodesFilled     []string      `json:"employeeCodesFilled"`
	InterestRatesNormalized []string      `json:"interestRatesNormalized"`
	Failed                  []ItemFailure `json:"failed"`
}
