package main

import (
	"flag"
	"testing"

	"github.com/kolamarket/shopdesk/internal/filter"
)

func TestParseRange(t *testing.T) {
	cases := map[string]filter.DateRange{
		"":         filter.RangeAll,
		"all":      filter.RangeAll,
		"7d":       filter.RangeLast7,
		"last_7d":  filter.RangeLast7,
		"30d":      filter.RangeLast30,
		"90d":      filter.RangeLast90,
		" 90D ":    filter.RangeLast90,
		"last_90d": filter.RangeLast90,
	}
	for raw, want := range cases {
		got, err := parseRange(raw)
		if err != nil {
			t.Fatalf("parseRange(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("parseRange(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := parseRange("fortnight"); err == nil {
		t.Fatal("expected error for unknown range")
	}
}

func TestParseCoordinates(t *testing.T) {
	coords, err := parseCoordinates("6.45 3.39 12.5\n")
	if err != nil {
		t.Fatalf("parseCoordinates: %v", err)
	}
	if coords.Latitude != 6.45 || coords.Longitude != 3.39 || coords.AccuracyMeters != 12.5 {
		t.Fatalf("coords = %+v", coords)
	}

	coords, err = parseCoordinates("9.07 7.49")
	if err != nil {
		t.Fatalf("parseCoordinates: %v", err)
	}
	if coords.AccuracyMeters != 0 {
		t.Fatalf("accuracy = %f, want 0", coords.AccuracyMeters)
	}

	for _, bad := range []string{"", "6.45", "lat lng"} {
		if _, err := parseCoordinates(bad); err == nil {
			t.Fatalf("parseCoordinates(%q) should fail", bad)
		}
	}
}

func TestProfileUpdateFromOnlyCarriesSetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	firstName := fs.String("first-name", "", "")
	lastName := fs.String("last-name", "", "")
	phone := fs.String("phone", "", "")
	address := fs.String("address", "", "")
	state := fs.String("state", "", "")
	if err := fs.Parse([]string{"--first-name", "Ade", "--state", ""}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	update := profileUpdateFrom(fs, *firstName, *lastName, *phone, *address, *state)
	if update == nil {
		t.Fatal("expected an update")
	}
	if update.FirstName == nil || *update.FirstName != "Ade" {
		t.Fatalf("FirstName = %v", update.FirstName)
	}
	// An explicitly empty flag still travels, clearing the field.
	if update.State == nil || *update.State != "" {
		t.Fatalf("State = %v", update.State)
	}
	if update.LastName != nil || update.PhoneNumber != nil || update.Address != nil {
		t.Fatalf("unset fields leaked: %+v", update)
	}
}

func TestProfileUpdateFromNothingSet(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	firstName := fs.String("first-name", "", "")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if update := profileUpdateFrom(fs, *firstName, "", "", "", ""); update != nil {
		t.Fatalf("update = %+v, want nil", update)
	}
}
