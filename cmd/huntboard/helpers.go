package main

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/huntboard/internal/config"
	"git.home.luguber.info/inful/huntboard/internal/daemon"
	"git.home.luguber.info/inful/huntboard/internal/hunt"
	"git.home.luguber.info/inful/huntboard/internal/photo"
	"git.home.luguber.info/inful/huntboard/internal/state"
	"git.home.luguber.info/inful/huntboard/internal/submit"
)

// openTracker builds an initialized tracker over the configured store for
// one-shot CLI commands. The returned cleanup closes the store.
func openTracker(cfg *config.Config) (*state.Tracker, func(), error) {
	store, err := daemon.OpenStore(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage backend: %w", err)
	}

	tracker := state.NewTracker(
		store,
		submit.NewHTTPSubmitter(cfg.Submission.Endpoint, nil),
		state.WithEncoder(photo.NewEncoder(cfg.Photo.Quality)),
	)
	if err := tracker.Initialize(context.Background()); err != nil {
		store.Close()
		return nil, nil, err
	}

	return tracker, func() { _ = store.Close() }, nil
}

// resolveItem accepts an item ID or a case-insensitive title and returns
// the item ID.
func resolveItem(s hunt.State, ref string) (string, error) {
	if s.IndexOf(ref) >= 0 {
		return ref, nil
	}
	for _, it := range s.Items {
		if strings.EqualFold(it.Title, ref) {
			return it.ID, nil
		}
	}
	return "", fmt.Errorf("no item matches %q", ref)
}
