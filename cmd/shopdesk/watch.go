package main

import (
	"context"
	"fmt"

	"github.com/kolamarket/shopdesk/internal/notify"
)

func (a *app) cmdStats(ctx context.Context) error {
	if err := a.hydrate(ctx); err != nil {
		return err
	}
	stats, err := a.client.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "shops:   %d total, %d active, %d pending, %d rejected\n",
		stats.TotalShops, stats.ActiveShops, stats.PendingShops, stats.RejectedShops)
	fmt.Fprintf(a.out, "agents:  %d total, %d active\n", stats.TotalAgents, stats.ActiveAgents)
	return nil
}

// cmdWatch runs the pending-review poller in the foreground until interrupted.
func (a *app) cmdWatch(ctx context.Context) error {
	if err := a.hydrate(ctx); err != nil {
		return err
	}

	poller, err := notify.NewPendingPoller(notify.PollerParams{
		Fetch:    a.client.ListShops,
		Interval: a.cfg.Polling.PendingInterval,
		Bus:      a.bus,
		Logger:   a.logg,
		OnUpdate: func(snapshot notify.Snapshot) {
			for _, shop := range snapshot.Fresh {
				fmt.Fprintf(a.out, "new shop awaiting review: #%d %q in %s\n",
					shop.ID, shop.Name, shop.State)
			}
			fmt.Fprintf(a.out, "%d shop(s) pending review\n", len(snapshot.Pending))
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "watching for pending shops every %s, Ctrl-C to stop\n", a.cfg.Polling.PendingInterval)
	poller.Run(ctx)
	return nil
}
