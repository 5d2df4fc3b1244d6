package state

import (
	"context"
	"fmt"
	"sort"
	"time"

	"git.home.luguber.info/inful/huntboard/internal/storage"
)

// backupKeyPrefix namespaces timestamped copies of the state value.
const backupKeyPrefix = "huntboard/backup/"

// backupTimeLayout keeps backup keys lexically sortable by creation time.
const backupTimeLayout = "20060102T150405.000Z"

// Backup copies the current persisted state value to a timestamped backup
// key and prunes old backups down to keep. Returns the new backup key.
func (t *Tracker) Backup(ctx context.Context, keep int) (string, error) {
	data, err := t.store.Get(ctx, StateKey)
	if err != nil {
		return "", fmt.Errorf("read state for backup: %w", err)
	}

	key := backupKeyPrefix + time.Now().UTC().Format(backupTimeLayout)
	if err := t.store.Set(ctx, key, data); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	if keep > 0 {
		if err := t.pruneBackups(ctx, keep); err != nil {
			return key, fmt.Errorf("prune backups: %w", err)
		}
	}
	return key, nil
}

// pruneBackups deletes the oldest backups beyond keep.
func (t *Tracker) pruneBackups(ctx context.Context, keep int) error {
	keys, err := t.store.List(ctx, backupKeyPrefix)
	if err != nil {
		return err
	}
	if len(keys) <= keep {
		return nil
	}

	sort.Strings(keys)
	for _, key := range keys[:len(keys)-keep] {
		if err := t.store.Delete(ctx, key); err != nil && !storage.IsNotFound(err) {
			return err
		}
	}
	return nil
}
