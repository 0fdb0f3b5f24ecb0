// Package geo holds the fixed Nigerian state and local government area lookup
// used by shop location fields. The LGA set for a shop is always constrained to
// its state's entry here.
package geo

import "sort"

// States returns every known state name, including the FCT, sorted.
func States() []string {
	states := make([]string, 0, len(lgasByState))
	for state := range lgasByState {
		states = append(states, state)
	}
	sort.Strings(states)
	return states
}

// LGAs returns the local government areas of the given state, or nil when the
// state is unknown. The returned slice is a copy.
func LGAs(state string) []string {
	lgas, ok := lgasByState[state]
	if !ok {
		return nil
	}
	out := make([]string, len(lgas))
	copy(out, lgas)
	return out
}

// IsState reports whether the name is a known state.
func IsState(state string) bool {
	_, ok := lgasByState[state]
	return ok
}

// ValidLGA reports whether lga belongs to the given state's LGA set.
func ValidLGA(state, lga string) bool {
	for _, candidate := range lgasByState[state] {
		if candidate == lga {
			return true
		}
	}
	return false
}
