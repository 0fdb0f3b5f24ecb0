package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/kolamarket/shopdesk/pkg/types"
)

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// setFlags reports which flags were passed explicitly, so partial updates only
// touch the fields the operator named.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// profileUpdateFrom builds a partial profile edit from explicitly passed
// flags, or nil when none were.
func profileUpdateFrom(fs *flag.FlagSet, firstName, lastName, phone, address, state string) *types.UpdateProfileRequest {
	set := setFlags(fs)
	update := types.UpdateProfileRequest{}
	touched := false
	if set["first-name"] {
		update.FirstName = &firstName
		touched = true
	}
	if set["last-name"] {
		update.LastName = &lastName
		touched = true
	}
	if set["phone"] {
		update.PhoneNumber = &phone
		touched = true
	}
	if set["address"] {
		update.Address = &address
		touched = true
	}
	if set["state"] {
		update.State = &state
		touched = true
	}
	if !touched {
		return nil
	}
	return &update
}
