package enums

import (
	"fmt"
	"strings"
)

// VerificationStatus captures the shop verification workflow.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

var validVerificationStatuses = []VerificationStatus{
	VerificationPending,
	VerificationVerified,
	VerificationRejected,
}

// String implements fmt.Stringer.
func (s VerificationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known VerificationStatus.
func (s VerificationStatus) IsValid() bool {
	for _, candidate := range validVerificationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Active reports whether a shop in this status is operationally active.
// Only verified shops are active.
func (s VerificationStatus) Active() bool {
	return s == VerificationVerified
}

// ParseVerificationStatus converts raw input into a VerificationStatus.
// Input is normalized upper-case before matching.
func ParseVerificationStatus(value string) (VerificationStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validVerificationStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification status %q", value)
}
