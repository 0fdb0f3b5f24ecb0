// Package draft manages the edit session of a single shop record: scalar field
// edits plus the photo reconciliation plan (kept, deleted, newly added) that is
// materialized into one submission at save time.
package draft

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/geo"
	"github.com/kolamarket/shopdesk/pkg/types"
)

// MaxPhotos is the quota of live photos per shop.
const MaxPhotos = 5

var validate = validator.New(validator.WithRequiredStructEnabled())

// File is a pending local photo upload.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Session is the draft state of one shop across a create or edit flow.
type Session struct {
	shopID *int64

	Name                string
	State               string
	LocalGovernmentArea string
	Address             string
	PhoneNumber         string
	Description         string
	Latitude            *float64
	Longitude           *float64

	originalCount int
	existing      []types.ShopPhoto
	deletedIDs    []int64
	newFiles      []File
}

// NewSession starts a blank draft for shop creation.
func NewSession() *Session {
	return &Session{}
}

// EditSession starts a draft seeded from an existing shop.
func EditSession(shop types.Shop) *Session {
	existing := make([]types.ShopPhoto, len(shop.Photos))
	copy(existing, shop.Photos)
	id := shop.ID
	return &Session{
		shopID:              &id,
		Name:                shop.Name,
		State:               shop.State,
		LocalGovernmentArea: shop.LocalGovernmentArea,
		Address:             shop.Address,
		PhoneNumber:         shop.PhoneNumber,
		Description:         shop.Description,
		Latitude:            shop.Latitude,
		Longitude:           shop.Longitude,
		originalCount:       len(shop.Photos),
		existing:            existing,
	}
}

// IsEdit reports whether the draft targets an existing shop.
func (s *Session) IsEdit() bool {
	return s.shopID != nil
}

// ShopID returns the target shop id, valid only when IsEdit.
func (s *Session) ShopID() int64 {
	if s.shopID == nil {
		return 0
	}
	return *s.shopID
}

// SetState updates the draft state and clears the LGA when the state actually
// changes, since the LGA set is state-dependent.
func (s *Session) SetState(state string) {
	if s.State == state {
		return
	}
	s.State = state
	s.LocalGovernmentArea = ""
}

// SetCoordinates pins the shop location.
func (s *Session) SetCoordinates(lat, lng float64) {
	s.Latitude = &lat
	s.Longitude = &lng
}

// ExistingPhotos returns the shop photos not yet marked for deletion.
func (s *Session) ExistingPhotos() []types.ShopPhoto {
	out := make([]types.ShopPhoto, len(s.existing))
	copy(out, s.existing)
	return out
}

// DeletedPhotoIDs returns the ids queued for deletion, in removal order.
func (s *Session) DeletedPhotoIDs() []int64 {
	out := make([]int64, len(s.deletedIDs))
	copy(out, s.deletedIDs)
	return out
}

// NewFiles returns the pending local uploads in the order they were added.
func (s *Session) NewFiles() []File {
	out := make([]File, len(s.newFiles))
	copy(out, s.newFiles)
	return out
}

// RemoveExistingPhoto moves a photo out of the kept set and queues its id for
// deletion. Removing an id twice is a no-op.
func (s *Session) RemoveExistingPhoto(photoID int64) {
	for i, photo := range s.existing {
		if photo.ID == photoID {
			s.existing = append(s.existing[:i], s.existing[i+1:]...)
			s.deletedIDs = append(s.deletedIDs, photoID)
			return
		}
	}
}

// RemoveNewFile drops one pending upload by position.
func (s *Session) RemoveNewFile(index int) error {
	if index < 0 || index >= len(s.newFiles) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no pending photo at position %d", index))
	}
	s.newFiles = append(s.newFiles[:index], s.newFiles[index+1:]...)
	return nil
}

// TotalCurrentPhotos is the count the quota is enforced against: original
// photos minus queued deletions, plus pending uploads.
func (s *Session) TotalCurrentPhotos() int {
	return (s.originalCount - len(s.deletedIDs)) + len(s.newFiles)
}

// CanAddPhotos reports whether the quota leaves room for at least one more.
func (s *Session) CanAddPhotos() bool {
	return s.TotalCurrentPhotos() < MaxPhotos
}

// AddFiles appends uploads to the draft. The batch is all-or-nothing: when it
// does not fit in the remaining quota, nothing is added and the error states
// how many more may be added.
func (s *Session) AddFiles(files ...File) error {
	if len(files) == 0 {
		return nil
	}
	slots := MaxPhotos - s.TotalCurrentPhotos()
	if len(files) > slots {
		switch {
		case slots <= 0:
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("photo limit reached: a shop can have at most %d photos", MaxPhotos))
		case slots == 1:
			return pkgerrors.New(pkgerrors.CodeValidation, "you can only add 1 more photo")
		default:
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("you can only add %d more photos", slots))
		}
	}
	s.newFiles = append(s.newFiles, files...)
	return nil
}

type sessionForm struct {
	Name        string `validate:"required"`
	PhoneNumber string `validate:"omitempty,min=7"`
}

// Validate checks the draft before submission. Location pinning is mandatory
// for both create and edit; no request is issued while this fails.
func (s *Session) Validate() error {
	var errs error

	if s.Latitude == nil || s.Longitude == nil {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "pin the shop's location on the map"))
	}
	if err := validate.Struct(sessionForm{Name: s.Name, PhoneNumber: s.PhoneNumber}); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Name":
				errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required"))
			case "PhoneNumber":
				errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "phone number looks too short"))
			}
		}
	}
	if s.State != "" && !geo.IsState(s.State) {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown state %q", s.State)))
	}
	if s.LocalGovernmentArea != "" && !geo.ValidLGA(s.State, s.LocalGovernmentArea) {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%q is not an LGA of %s", s.LocalGovernmentArea, s.State)))
	}
	return errs
}

// Submission is the materialized outbound plan consumed by the API client's
// multipart encoder. Scalar fields hold only non-empty values; the photos
// collection itself is never serialized as a scalar.
type Submission struct {
	ShopID         *int64
	Fields         map[string]string
	PhotosToDelete []int64
	NewPhotos      []File
}

// Payload validates the draft and materializes the submission plan.
func (s *Session) Payload() (*Submission, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	put := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	put("name", s.Name)
	put("state", s.State)
	put("local_government_area", s.LocalGovernmentArea)
	put("address", s.Address)
	put("phone_number", s.PhoneNumber)
	put("description", s.Description)
	fields["latitude"] = strconv.FormatFloat(*s.Latitude, 'f', -1, 64)
	fields["longitude"] = strconv.FormatFloat(*s.Longitude, 'f', -1, 64)

	sub := &Submission{
		ShopID:    s.shopID,
		Fields:    fields,
		NewPhotos: s.NewFiles(),
	}
	// Deletion ids only travel on edits; creates have nothing to delete.
	if s.shopID != nil {
		sub.PhotosToDelete = s.DeletedPhotoIDs()
	}
	return sub, nil
}
