package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// HealthState represents the health state of a system component.
type HealthState string

const (
	HealthStateHealthy  HealthState = "healthy"
	HealthStateWarning  HealthState = "warning"
	HealthStateDisabled HealthState = "disabled"
)

// String returns the string representation of HealthState.
func (s HealthState) String() string {
	return string(s)
}

// IsValid reports whether s is a known state.
func (s HealthState) IsValid() bool {
	switch s {
	case HealthStateHealthy, HealthStateWarning, HealthStateDisabled:
		return true
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler with state validation.
func (s *HealthState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	state := HealthState(str)
	if !state.IsValid() {
		return fmt.Errorf("invalid health state: %s", str)
	}
	*s = state
	return nil
}

// HealthStatus is a point-in-time health evaluation. Issues lists the
// specific threshold breaches when State is warning.
type HealthStatus struct {
	State     HealthState `json:"state"`
	Issues    []string    `json:"issues,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Healthy returns a healthy status stamped now.
func Healthy() HealthStatus {
	return HealthStatus{State: HealthStateHealthy, CheckedAt: time.Now()}
}

// Warning returns a warning status carrying the tripped issues.
func Warning(issues ...string) HealthStatus {
	return HealthStatus{State: HealthStateWarning, Issues: issues, CheckedAt: time.Now()}
}

// Disabled returns the status reported when monitoring is turned off.
func Disabled() HealthStatus {
	return HealthStatus{State: HealthStateDisabled, CheckedAt: time.Now()}
}

// IsHealthy reports whether the state is healthy.
func (h HealthStatus) IsHealthy() bool {
	return h.State == HealthStateHealthy
}
