package snapshot

import "sync/atomic"

// Status is the read-only view of the monitored target exposed over HTTP.
type Status struct {
	Target      string `json:"target"`
	URL         string `json:"url"`
	Up          bool   `json:"up"`
	LastChecked string `json:"last_checked"`
	LatencyMs   int64  `json:"latency_ms"`
	StatusCode  int    `json:"status_code"`
	LastError   string `json:"last_error"`

	ConsecutiveSuccess int `json:"consecutive_success"`
	ConsecutiveFail    int `json:"consecutive_fail"`
	TotalChecks        int `json:"total_checks"`
	TotalFails         int `json:"total_fails"`

	// RFC3339 instant the failure threshold was crossed; empty while up.
	DownSince string `json:"down_since,omitempty"`
}

var current atomic.Value // stores Status

// Publish replaces the current status.
func Publish(s Status) {
	current.Store(s)
}

// Get returns the latest status.
// If nothing was published yet, returns a zero-value status.
func Get() Status {
	if v := current.Load(); v != nil {
		return v.(Status)
	}
	return Status{}
}
