package enums

import "fmt"

// ActivityAction describes the kind of change recorded in a shop activity log entry.
type ActivityAction string

const (
	ActivityCreate ActivityAction = "CREATE"
	ActivityUpdate ActivityAction = "UPDATE"
	ActivityDelete ActivityAction = "DELETE"
	ActivityVerify ActivityAction = "VERIFY"
	ActivityReject ActivityAction = "REJECT"
)

var validActivityActions = []ActivityAction{
	ActivityCreate,
	ActivityUpdate,
	ActivityDelete,
	ActivityVerify,
	ActivityReject,
}

// String implements fmt.Stringer.
func (a ActivityAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityAction.
func (a ActivityAction) IsValid() bool {
	for _, candidate := range validActivityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityAction converts raw input into an ActivityAction.
func ParseActivityAction(value string) (ActivityAction, error) {
	for _, candidate := range validActivityActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity action %q", value)
}
