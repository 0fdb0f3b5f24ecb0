package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"

	"github.com/kolamarket/shopdesk/internal/draft"
	"github.com/kolamarket/shopdesk/pkg/enums"
	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/types"
)

const (
	fieldPhotosToDelete = "photos_to_delete_ids"
	fieldUploadedPhotos = "uploaded_photos"
)

// shopList tolerates both response shapes the server is known to emit: a bare
// array and a paginated {results: [...]} envelope.
type shopList struct {
	shops []types.Shop
}

func (l *shopList) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		return json.Unmarshal(raw, &l.shops)
	}
	var envelope struct {
		Results []types.Shop `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err
	}
	l.shops = envelope.Results
	return nil
}

// ListShops fetches the full shop collection.
func (c *Client) ListShops(ctx context.Context) ([]types.Shop, error) {
	var list shopList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/shops/"}, &list); err != nil {
		return nil, err
	}
	return list.shops, nil
}

// ListMyShops fetches the shops created by the current agent.
func (c *Client) ListMyShops(ctx context.Context) ([]types.Shop, error) {
	var list shopList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/shops/my-shops/"}, &list); err != nil {
		return nil, err
	}
	return list.shops, nil
}

// CreateShop submits a new shop as one multipart payload.
func (c *Client) CreateShop(ctx context.Context, sub *draft.Submission) (*types.Shop, error) {
	if sub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to submit")
	}
	req, err := multipartRequest(http.MethodPost, "/shops/", sub, false)
	if err != nil {
		return nil, err
	}
	var shop types.Shop
	if err := c.do(ctx, req, &shop); err != nil {
		return nil, err
	}
	c.logg.Info(c.logg.WithShopID(ctx, strconv.FormatInt(shop.ID, 10)), "shop created")
	return &shop, nil
}

// UpdateShop patches an existing shop, including queued photo deletions and
// new uploads, as one multipart payload.
func (c *Client) UpdateShop(ctx context.Context, sub *draft.Submission) (*types.Shop, error) {
	if sub == nil || sub.ShopID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required for updates")
	}
	path := fmt.Sprintf("/shops/%d/", *sub.ShopID)
	req, err := multipartRequest(http.MethodPatch, path, sub, true)
	if err != nil {
		return nil, err
	}
	var shop types.Shop
	if err := c.do(ctx, req, &shop); err != nil {
		return nil, err
	}
	c.logg.Info(c.logg.WithShopID(ctx, strconv.FormatInt(shop.ID, 10)), "shop updated")
	return &shop, nil
}

// SetVerification patches only the verification fields of a shop. The server
// response is the authoritative record the caller must adopt.
func (c *Client) SetVerification(ctx context.Context, shopID int64, status enums.VerificationStatus, reason string) (*types.Shop, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid verification status %q", status))
	}
	payload := map[string]string{"verification_status": status.String()}
	if reason != "" {
		payload["rejection_reason"] = reason
	}
	req, err := jsonRequest(http.MethodPatch, fmt.Sprintf("/shops/%d/", shopID), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building verification request")
	}
	var shop types.Shop
	if err := c.do(ctx, req, &shop); err != nil {
		return nil, err
	}
	lctx := c.logg.WithFields(ctx, map[string]any{
		"shop_id": shopID,
		"status":  status.String(),
	})
	c.logg.Info(lctx, "shop verification updated")
	return &shop, nil
}

// ShopLogs fetches the activity log of one shop.
func (c *Client) ShopLogs(ctx context.Context, shopID int64) ([]types.ActivityLogEntry, error) {
	query := url.Values{"shop_id": []string{strconv.FormatInt(shopID, 10)}}
	req := request{method: http.MethodGet, path: "/shops/logs/", query: query.Encode()}
	var entries []types.ActivityLogEntry
	if err := c.do(ctx, req, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats fetches the dashboard aggregate counters.
func (c *Client) Stats(ctx context.Context) (*types.DashboardStats, error) {
	var stats types.DashboardStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/shops/stats/"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// multipartRequest encodes a shop submission. Scalar fields travel as form
// values, deletions as repeated photos_to_delete_ids entries (edits only), and
// uploads as repeated uploaded_photos file parts.
func multipartRequest(method, path string, sub *draft.Submission, isEdit bool) (request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(sub.Fields))
	for key := range sub.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := writer.WriteField(key, sub.Fields[key]); err != nil {
			return request{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding form field")
		}
	}

	if isEdit {
		for _, id := range sub.PhotosToDelete {
			if err := writer.WriteField(fieldPhotosToDelete, strconv.FormatInt(id, 10)); err != nil {
				return request{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding photo deletion")
			}
		}
	}

	for _, file := range sub.NewPhotos {
		part, err := createFilePart(writer, file.Name, file.ContentType)
		if err != nil {
			return request{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding photo upload")
		}
		if _, err := part.Write(file.Content); err != nil {
			return request{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing photo upload")
		}
	}

	if err := writer.Close(); err != nil {
		return request{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalizing multipart body")
	}

	return request{
		method:      method,
		path:        path,
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
	}, nil
}

func createFilePart(writer *multipart.Writer, filename, contentType string) (interface{ Write([]byte) (int, error) }, error) {
	if contentType == "" {
		return writer.CreateFormFile(fieldUploadedPhotos, filename)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldUploadedPhotos, filename))
	header.Set("Content-Type", contentType)
	return writer.CreatePart(header)
}
