package pitch

// LeadInfo is what the pitch service receives for one website. Empty fields
// are left out of the request.
type LeadInfo struct {
	Website       string
	Name          string
	Email         string
	Phone         string
	Service       string
	Message       string
	SourceWebsite string
}

// Result is the outcome of one Dispatch call. Error is set when Success is
// false.
type Result struct {
	Success bool
	Error   string
}
