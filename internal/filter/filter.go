// Package filter derives visible subsets of an in-memory shop collection. All
// functions are pure: predicates are conjoined, input order is preserved, and
// the source slice is never mutated.
package filter

import (
	"strings"
	"time"

	"github.com/kolamarket/shopdesk/pkg/enums"
	"github.com/kolamarket/shopdesk/pkg/types"
)

// All is the sentinel criterion value that deactivates a predicate.
const All = "all"

// DateRange narrows shops by creation date with an inclusive lower bound.
type DateRange string

const (
	RangeAll    DateRange = "all"
	RangeLast7  DateRange = "last_7d"
	RangeLast30 DateRange = "last_30d"
	RangeLast90 DateRange = "last_90d"
)

// Days returns the window size, or 0 for the no-op range.
func (r DateRange) Days() int {
	switch r {
	case RangeLast7:
		return 7
	case RangeLast30:
		return 30
	case RangeLast90:
		return 90
	default:
		return 0
	}
}

// Criteria is the transient, view-owned query object. Empty or "all" values
// deactivate their predicate; active predicates are combined with AND.
type Criteria struct {
	// Search matches case-insensitively against shop name or address.
	Search string
	State  string
	LGA    string
	// Status filters on is_active, holding "true"/"false" as received from the
	// status dropdown.
	Status string
	// Verification filters on verification_status; "ALL" is a no-op.
	Verification string
	// Agent matches the shop's creator by exact identifier (created_by_id,
	// falling back to created_by). Substring matching by display name was an
	// inconsistency between the old table and map views and is deliberately
	// not implemented.
	Agent string
	Range DateRange
}

// Apply returns the shops satisfying every active criterion, in input order.
func Apply(shops []types.Shop, c Criteria) []types.Shop {
	return applyAt(shops, c, time.Now(), false)
}

// ApplyMap behaves like Apply with one extra, always-on predicate: shops
// without both coordinates never reach the map.
func ApplyMap(shops []types.Shop, c Criteria) []types.Shop {
	return applyAt(shops, c, time.Now(), true)
}

func applyAt(shops []types.Shop, c Criteria, now time.Time, mapOnly bool) []types.Shop {
	filtered := make([]types.Shop, 0, len(shops))
	for _, shop := range shops {
		if mapOnly && !shop.HasCoordinates() {
			continue
		}
		if !matches(shop, c, now) {
			continue
		}
		filtered = append(filtered, shop)
	}
	return filtered
}

func matches(shop types.Shop, c Criteria, now time.Time) bool {
	if active(c.State) && shop.State != c.State {
		return false
	}
	if active(c.LGA) && shop.LocalGovernmentArea != c.LGA {
		return false
	}
	if active(c.Status) && shop.IsActive != (c.Status == "true") {
		return false
	}
	if verification, ok := activeVerification(c.Verification); ok && shop.VerificationStatus != verification {
		return false
	}
	if active(c.Agent) && !matchAgent(shop, c.Agent) {
		return false
	}
	if days := c.Range.Days(); days > 0 {
		cutoff := now.AddDate(0, 0, -days)
		if shop.DateCreated.Before(cutoff) {
			return false
		}
	}
	if c.Search != "" && !matchSearch(shop, c.Search) {
		return false
	}
	return true
}

func active(criterion string) bool {
	return criterion != "" && criterion != All
}

func activeVerification(criterion string) (enums.VerificationStatus, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(criterion))
	if normalized == "" || normalized == "ALL" {
		return "", false
	}
	return enums.VerificationStatus(normalized), true
}

func matchAgent(shop types.Shop, agent string) bool {
	if shop.CreatedByID != "" {
		return shop.CreatedByID == agent
	}
	return shop.CreatedBy == agent
}

// matchSearch is a case-insensitive substring test over name OR address.
func matchSearch(shop types.Shop, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(shop.Name), needle) ||
		strings.Contains(strings.ToLower(shop.Address), needle)
}
