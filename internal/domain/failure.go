package domain

// Failure represents a failed test case in a report
type Failure struct {
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	Resolved bool   `json:"resolved,omitempty"` // Toggled from the failures viewer
}
