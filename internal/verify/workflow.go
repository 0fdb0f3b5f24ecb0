// Package verify orchestrates the admin verification workflow over the remote
// API: pending or rejected shops can be approved, pending or verified shops
// can be rejected with a reason. The server enforces the transitions; this
// package gates obviously invalid requests locally and fans the authoritative
// result out on the event bus.
package verify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kolamarket/shopdesk/internal/events"
	"github.com/kolamarket/shopdesk/pkg/enums"
	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/logger"
	"github.com/kolamarket/shopdesk/pkg/types"
)

type verificationAPI interface {
	SetVerification(ctx context.Context, shopID int64, status enums.VerificationStatus, reason string) (*types.Shop, error)
}

// Workflow drives verification transitions and notifies subscribed views.
type Workflow struct {
	api  verificationAPI
	bus  *events.Bus
	logg *logger.Logger
}

type WorkflowParams struct {
	API    verificationAPI
	Bus    *events.Bus
	Logger *logger.Logger
}

// NewWorkflow wires the verification workflow.
func NewWorkflow(params WorkflowParams) (*Workflow, error) {
	if params.API == nil {
		return nil, fmt.Errorf("verification api required")
	}
	if params.Bus == nil {
		return nil, fmt.Errorf("event bus required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Workflow{api: params.API, bus: params.Bus, logg: params.Logger}, nil
}

// Approve transitions a pending or rejected shop to verified. The server's
// returned record is authoritative and is published to all subscribers.
func (w *Workflow) Approve(ctx context.Context, shop types.Shop) (*types.Shop, error) {
	if shop.VerificationStatus == enums.VerificationVerified {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop is already verified")
	}
	return w.transition(ctx, shop.ID, enums.VerificationVerified, "")
}

// Reject transitions a pending or verified shop to rejected. An empty or
// whitespace-only reason blocks locally; no request is issued.
func (w *Workflow) Reject(ctx context.Context, shop types.Shop, reason string) (*types.Shop, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a rejection reason is required")
	}
	if shop.VerificationStatus == enums.VerificationRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop is already rejected")
	}
	return w.transition(ctx, shop.ID, enums.VerificationRejected, reason)
}

// Revoke withdraws a shop's verification. There is no distinct revoked state:
// revocation routes through the rejection flow and requires a reason.
func (w *Workflow) Revoke(ctx context.Context, shop types.Shop, reason string) (*types.Shop, error) {
	return w.Reject(ctx, shop, reason)
}

func (w *Workflow) transition(ctx context.Context, shopID int64, status enums.VerificationStatus, reason string) (*types.Shop, error) {
	updated, err := w.api.SetVerification(ctx, shopID, status, reason)
	if err != nil {
		// Local state stays untouched; the caller may retry.
		return nil, err
	}
	w.bus.Publish(events.ShopUpdated{Shop: *updated})
	lctx := w.logg.WithShopID(ctx, strconv.FormatInt(updated.ID, 10))
	w.logg.Info(lctx, fmt.Sprintf("verification now %s", updated.VerificationStatus))
	return updated, nil
}
