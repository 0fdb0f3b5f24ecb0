package main

import (
	"context"
	"flag"
	"fmt"
)

func (a *app) cmdApprove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("approve", flag.ContinueOnError)
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
	updated, err := a.workflow.Approve(ctx, *shop)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "shop #%d %q is now %s\n", updated.ID, updated.Name, updated.VerificationStatus)
	return nil
}

func (a *app) cmdReject(ctx context.Context, args []string) error {
	return a.reject(ctx, "reject", args)
}

// cmdRevoke withdraws an earlier verification. It shares the rejection flow:
// a revoked shop is a rejected shop with a reason on record.
func (a *app) cmdRevoke(ctx context.Context, args []string) error {
	return a.reject(ctx, "revoke", args)
}

func (a *app) reject(ctx context.Context, name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	id := fs.Int64("id", 0, "shop id")
	reason := fs.String("reason", "", "reason shown to the shop's agent")
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
	updated, err := a.workflow.Reject(ctx, *shop, *reason)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "shop #%d %q is now %s: %s\n", updated.ID, updated.Name, updated.VerificationStatus, *reason)
	return nil
}
