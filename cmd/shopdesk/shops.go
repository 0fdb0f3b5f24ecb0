package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/kolamarket/shopdesk/internal/draft"
	"github.com/kolamarket/shopdesk/internal/filter"
	"github.com/kolamarket/shopdesk/internal/shopstore"
	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/types"
)

func (a *app) cmdShopsList(ctx context.Context, args []string, mine bool) error {
	name := "shops list"
	if mine {
		name = "shops mine"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	search := fs.String("search", "", "substring match on name or address")
	state := fs.String("state", filter.All, "state filter")
	lga := fs.String("lga", filter.All, "local government area filter")
	status := fs.String("status", filter.All, "active status filter: true or false")
	verification := fs.String("verification", filter.All, "verification filter: PENDING, VERIFIED or REJECTED")
	agent := fs.String("agent", filter.All, "creator agent id filter")
	dateRange := fs.String("range", "all", "creation window: all, 7d, 30d or 90d")
	mapOnly := fs.Bool("map", false, "only shops with coordinates, as map pins")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng, err := parseRange(*dateRange)
	if err != nil {
		return err
	}

	if err := a.hydrate(ctx); err != nil {
		return err
	}

	fetch := a.client.ListShops
	if mine {
		fetch = a.client.ListMyShops
	}
	store := shopstore.NewStore(fetch, a.bus)
	defer store.Close()

	if err := store.Refresh(ctx); err != nil {
		return err
	}
	store.SetCriteria(filter.Criteria{
		Search:       *search,
		State:        *state,
		LGA:          *lga,
		Status:       *status,
		Verification: *verification,
		Agent:        *agent,
		Range:        rng,
	})

	if *mapOnly {
		return a.renderPins(store.MapPins(), store.Len())
	}
	return a.renderShops(store.Visible(), store.Len())
}

func (a *app) cmdShopShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shops show", flag.ContinueOnError)
	id := fs.Int64("id", 0, "shop id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.hydrate(ctx); err != nil {
		return err
	}
	shop, err := a.findShop(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "#%d %s\n", shop.ID, shop.Name)
	fmt.Fprintf(a.out, "status:       %s", shop.VerificationStatus)
	if shop.RejectionReason != "" {
		fmt.Fprintf(a.out, " (%s)", shop.RejectionReason)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "active:       %t\n", shop.IsActive)
	fmt.Fprintf(a.out, "state / lga:  %s / %s\n", shop.State, shop.LocalGovernmentArea)
	if shop.Address != "" {
		fmt.Fprintf(a.out, "address:      %s\n", shop.Address)
	}
	if shop.PhoneNumber != "" {
		fmt.Fprintf(a.out, "phone:        %s\n", shop.PhoneNumber)
	}
	if shop.HasCoordinates() {
		fmt.Fprintf(a.out, "coordinates:  %.6f, %.6f\n", *shop.Latitude, *shop.Longitude)
	} else {
		fmt.Fprintln(a.out, "coordinates:  not pinned")
	}
	fmt.Fprintf(a.out, "created by:   %s on %s\n", shop.CreatedBy, shop.DateCreated.Format("2006-01-02"))
	fmt.Fprintf(a.out, "photos:       %d of %d\n", len(shop.Photos), draft.MaxPhotos)
	for _, photo := range shop.Photos {
		fmt.Fprintf(a.out, "  [%d] %s\n", photo.ID, photo.URL)
	}
	return nil
}

func (a *app) cmdShopLogs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shops logs", flag.ContinueOnError)
	id := fs.Int64("id", 0, "shop id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "--id is required")
	}
	if err := a.hydrate(ctx); err != nil {
		return err
	}

	entries, err := a.client.ShopLogs(ctx, *id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "no activity recorded")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(a.out, "%s  %-7s %s\n", entry.Timestamp.Format("2006-01-02 15:04"), entry.ActionType, entry.ActorName)
		if changes, ok := entry.FieldChanges(); ok {
			for field, change := range changes {
				fmt.Fprintf(a.out, "    %s: %v -> %v\n", field, change.Old, change.New)
			}
		} else if msg, ok := entry.Message(); ok {
			fmt.Fprintf(a.out, "    %s\n", msg)
		}
	}
	return nil
}

func (a *app) cmdShopCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shops create", flag.ContinueOnError)
	var photos stringList
	name := fs.String("name", "", "shop name")
	state := fs.String("state", "", "state")
	lga := fs.String("lga", "", "local government area")
	address := fs.String("address", "", "street address")
	phone := fs.String("phone", "", "contact phone number")
	description := fs.String("description", "", "free-text description")
	lat := fs.Float64("lat", 0, "pinned latitude")
	lng := fs.Float64("lng", 0, "pinned longitude")
	locate := fs.Bool("locate", false, "pin using the device location provider")
	fs.Var(&photos, "photo", "photo file to upload (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess := draft.NewSession()
	sess.Name = *name
	sess.SetState(*state)
	sess.LocalGovernmentArea = *lga
	sess.Address = *address
	sess.PhoneNumber = *phone
	sess.Description = *description

	set := setFlags(fs)
	if set["lat"] && set["lng"] {
		sess.SetCoordinates(*lat, *lng)
	}

	if err := a.hydrate(ctx); err != nil {
		return err
	}

	if *locate {
		coords, err := a.acquireLocation(ctx)
		if err != nil {
			return err
		}
		sess.SetCoordinates(coords.Latitude, coords.Longitude)
		fmt.Fprintf(a.out, "pinned at %.6f, %.6f\n", coords.Latitude, coords.Longitude)
	}

	if err := addPhotoFiles(sess, photos); err != nil {
		return err
	}

	sub, err := sess.Payload()
	if err != nil {
		return err
	}
	shop, err := a.client.CreateShop(ctx, sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "shop #%d %q created, verification %s\n", shop.ID, shop.Name, shop.VerificationStatus)
	return nil
}

func (a *app) cmdShopUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shops update", flag.ContinueOnError)
	var photos stringList
	var deletions stringList
	id := fs.Int64("id", 0, "shop id")
	name := fs.String("name", "", "shop name")
	state := fs.String("state", "", "state")
	lga := fs.String("lga", "", "local government area")
	address := fs.String("address", "", "street address")
	phone := fs.String("phone", "", "contact phone number")
	description := fs.String("description", "", "free-text description")
	lat := fs.Float64("lat", 0, "pinned latitude")
	lng := fs.Float64("lng", 0, "pinned longitude")
	locate := fs.Bool("locate", false, "pin using the device location provider")
	fs.Var(&photos, "photo", "photo file to upload (repeatable)")
	fs.Var(&deletions, "delete-photo", "photo id to delete (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "--id is required")
	}

	if err := a.hydrate(ctx); err != nil {
		return err
	}
	shop, err := a.findShop(ctx, *id)
	if err != nil {
		return err
	}

	sess := draft.EditSession(*shop)
	set := setFlags(fs)
	if set["name"] {
		sess.Name = *name
	}
	if set["state"] {
		sess.SetState(*state)
	}
	if set["lga"] {
		sess.LocalGovernmentArea = *lga
	}
	if set["address"] {
		sess.Address = *address
	}
	if set["phone"] {
		sess.PhoneNumber = *phone
	}
	if set["description"] {
		sess.Description = *description
	}
	if set["lat"] && set["lng"] {
		sess.SetCoordinates(*lat, *lng)
	}
	if *locate {
		coords, err := a.acquireLocation(ctx)
		if err != nil {
			return err
		}
		sess.SetCoordinates(coords.Latitude, coords.Longitude)
		fmt.Fprintf(a.out, "pinned at %.6f, %.6f\n", coords.Latitude, coords.Longitude)
	}

	for _, raw := range deletions {
		photoID, err := parseID(raw)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid photo id %q", raw))
		}
		sess.RemoveExistingPhoto(photoID)
	}
	if err := addPhotoFiles(sess, photos); err != nil {
		return err
	}

	sub, err := sess.Payload()
	if err != nil {
		return err
	}
	updated, err := a.client.UpdateShop(ctx, sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "shop #%d %q updated\n", updated.ID, updated.Name)
	return nil
}

// findShop locates one shop in the full collection. The API has no
// fetch-by-id endpoint; every view works off the list.
func (a *app) findShop(ctx context.Context, id int64) (*types.Shop, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "--id is required")
	}
	shops, err := a.client.ListShops(ctx)
	if err != nil {
		return nil, err
	}
	for i := range shops {
		if shops[i].ID == id {
			return &shops[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no shop with id %d", id))
}

func (a *app) renderShops(shops []types.Shop, total int) error {
	if len(shops) == 0 {
		fmt.Fprintf(a.out, "no shops match (of %d total)\n", total)
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tLGA\tSTATUS\tACTIVE\tAGENT\tCREATED")
	for _, shop := range shops {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
			shop.ID, shop.Name, shop.State, shop.LocalGovernmentArea,
			shop.VerificationStatus, shop.IsActive, shop.CreatedBy,
			shop.DateCreated.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d shops\n", len(shops), total)
	return nil
}

func (a *app) renderPins(shops []types.Shop, total int) error {
	if len(shops) == 0 {
		fmt.Fprintf(a.out, "no mappable shops match (of %d total)\n", total)
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAT\tLNG\tSTATUS")
	for _, shop := range shops {
		fmt.Fprintf(w, "%d\t%s\t%.6f\t%.6f\t%s\n",
			shop.ID, shop.Name, *shop.Latitude, *shop.Longitude, shop.VerificationStatus)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d shops on the map\n", len(shops), total)
	return nil
}

func addPhotoFiles(sess *draft.Session, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	files := make([]draft.File, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("reading photo %s", path))
		}
		files = append(files, draft.File{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Content:     content,
		})
	}
	return sess.AddFiles(files...)
}

func parseRange(value string) (filter.DateRange, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return filter.RangeAll, nil
	case "7d", "last_7d":
		return filter.RangeLast7, nil
	case "30d", "last_30d":
		return filter.RangeLast30, nil
	case "90d", "last_90d":
		return filter.RangeLast90, nil
	default:
		return filter.RangeAll, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid range %q, use all, 7d, 30d or 90d", value))
	}
}
