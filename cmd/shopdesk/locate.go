package main

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kolamarket/shopdesk/internal/location"
	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
)

// execProvider shells out to a configured command that prints
// "<latitude> <longitude>" on stdout, e.g. a GPS daemon shim or termux-location
// wrapper.
type execProvider struct {
	command string
}

func (p execProvider) Locate(ctx context.Context) (location.Coordinates, error) {
	parts := strings.Fields(p.command)
	if len(parts) == 0 {
		return location.Coordinates{}, pkgerrors.New(pkgerrors.CodeValidation, "location command is empty")
	}
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return location.Coordinates{}, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "location command failed")
	}
	return parseCoordinates(string(out))
}

func parseCoordinates(out string) (location.Coordinates, error) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 2 {
		return location.Coordinates{}, pkgerrors.New(pkgerrors.CodeUnavailable,
			"location command must print latitude and longitude")
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return location.Coordinates{}, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "parsing latitude")
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return location.Coordinates{}, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "parsing longitude")
	}
	coords := location.Coordinates{Latitude: lat, Longitude: lng}
	if len(fields) >= 3 {
		if accuracy, err := strconv.ParseFloat(fields[2], 64); err == nil {
			coords.AccuracyMeters = accuracy
		}
	}
	return coords, nil
}

// acquireLocation blocks until the watcher delivers a fix or gives up.
func (a *app) acquireLocation(ctx context.Context) (location.Coordinates, error) {
	if a.cfg.Location.Command == "" {
		return location.Coordinates{}, pkgerrors.New(pkgerrors.CodeValidation,
			"no location provider configured, pass --lat and --lng instead")
	}

	type result struct {
		coords location.Coordinates
		err    error
	}
	done := make(chan result, 1)

	watcher, err := location.NewWatcher(location.WatcherParams{
		Provider:    execProvider{command: a.cfg.Location.Command},
		SoftTimeout: a.cfg.Location.SoftTimeout,
		HardTimeout: a.cfg.Location.HardTimeout,
		Logger:      a.logg,
		OnSlow: func() {
			fmt.Fprintln(a.out, "still waiting for a location fix...")
		},
		OnResult: func(coords location.Coordinates, err error) {
			done <- result{coords: coords, err: err}
		},
	})
	if err != nil {
		return location.Coordinates{}, err
	}

	watcher.Start(ctx)
	select {
	case res := <-done:
		return res.coords, res.err
	case <-ctx.Done():
		watcher.Cancel()
		return location.Coordinates{}, ctx.Err()
	}
}
