// Package models contains the data structures used throughout timeshift-console.
package models

import "strings"

// Form parameter and JSON keys of the timeshift settings record.
const (
	KeyEnabled         = "timeshift_enabled"
	KeyOnDemand        = "timeshift_ondemand"
	KeyPath            = "timeshift_path"
	KeyMaxPeriod       = "timeshift_max_period"
	KeyUnlimitedPeriod = "timeshift_unlimited_period"
	KeyMaxSize         = "timeshift_max_size"
	KeyUnlimitedSize   = "timeshift_unlimited_size"
)

// Keys lists the record keys in form order.
var Keys = []string{
	KeyEnabled,
	KeyOnDemand,
	KeyPath,
	KeyMaxPeriod,
	KeyUnlimitedPeriod,
	KeyMaxSize,
	KeyUnlimitedSize,
}

// TimeshiftSettings is the flat timeshift configuration record.
// MaxPeriod is in minutes, MaxSize in megabytes.
type TimeshiftSettings struct {
	Enabled         bool   `json:"timeshift_enabled" yaml:"enabled"`
	OnDemand        bool   `json:"timeshift_ondemand" yaml:"ondemand"`
	Path            string `json:"timeshift_path" yaml:"path"`
	MaxPeriod       int64  `json:"timeshift_max_period" yaml:"max_period"`
	UnlimitedPeriod bool   `json:"timeshift_unlimited_period" yaml:"unlimited_period"`
	MaxSize         int64  `json:"timeshift_max_size" yaml:"max_size"`
	UnlimitedSize   bool   `json:"timeshift_unlimited_size" yaml:"unlimited_size"`
}

// DefaultTimeshiftSettings returns the record used before anything was stored.
func DefaultTimeshiftSettings() TimeshiftSettings {
	return TimeshiftSettings{
		MaxPeriod: 60,
		MaxSize:   10240,
	}
}

// IsChecked reports whether a submitted checkbox value means checked.
func IsChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

// LoadResponse is the body returned for op=loadSettings.
type LoadResponse struct {
	Config TimeshiftSettings `json:"config"`
}

// SaveResponse is the body returned for op=saveSettings.
type SaveResponse struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"errormsg,omitempty"`
}
