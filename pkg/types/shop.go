package types

import (
	"time"

	"github.com/kolamarket/shopdesk/pkg/enums"
)

// ShopPhoto is one live photo attached to a shop, unique by ID.
type ShopPhoto struct {
	ID  int64  `json:"id"`
	URL string `json:"photo"`
}

// Shop is the core managed record: a physical retail location with location,
// media, and verification metadata. The server owns every field; the client
// never fabricates IDs or statuses.
type Shop struct {
	ID                  int64                    `json:"id"`
	Name                string                   `json:"name"`
	Latitude            *float64                 `json:"latitude"`
	Longitude           *float64                 `json:"longitude"`
	State               string                   `json:"state"`
	LocalGovernmentArea string                   `json:"local_government_area"`
	Address             string                   `json:"address,omitempty"`
	PhoneNumber         string                   `json:"phone_number,omitempty"`
	Description         string                   `json:"description,omitempty"`
	Photos              []ShopPhoto              `json:"photos"`
	IsActive            bool                     `json:"is_active"`
	VerificationStatus  enums.VerificationStatus `json:"verification_status"`
	RejectionReason     string                   `json:"rejection_reason,omitempty"`
	CreatedBy           string                   `json:"created_by"`
	CreatedByID         string                   `json:"created_by_id,omitempty"`
	Owner               string                   `json:"owner,omitempty"`
	DateCreated         time.Time                `json:"date_created"`
	DateUpdated         time.Time                `json:"date_updated"`
}

// HasCoordinates reports whether the shop can be placed on a map.
func (s Shop) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
