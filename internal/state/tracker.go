// Package state implements the hunt tracker: the single source of truth for
// hunt progress, its persistence, reward derivation, and submission
// orchestration.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/huntboard/internal/events"
	hberrors "git.home.luguber.info/inful/huntboard/internal/errors"
	"git.home.luguber.info/inful/huntboard/internal/hunt"
	"git.home.luguber.info/inful/huntboard/internal/metrics"
	"git.home.luguber.info/inful/huntboard/internal/photo"
	"git.home.luguber.info/inful/huntboard/internal/storage"
	"git.home.luguber.info/inful/huntboard/internal/submit"
)

// StateKey is the fixed versioned key the hunt state persists under.
const StateKey = "huntboard/state/v1"

// MsgSubmitSuccess is the exact user-visible message for a submission whose
// transport succeeded, regardless of the remote status code.
const MsgSubmitSuccess = "Submission successful!"

// ErrSubmitInFlight rejects a second submission while one is outstanding.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// SubmitOutcome is the user-visible result of a submission attempt.
type SubmitOutcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Tracker owns the authoritative hunt state. All mutation is serialized
// through one mutex; reads return copies. Persistence is synchronous with
// each mutation so observers never see a found item without its photo.
type Tracker struct {
	store     storage.KVStore
	encoder   *photo.Encoder
	submitter submit.Submitter
	bus       *events.Bus
	recorder  metrics.Recorder

	mu         sync.Mutex
	state      hunt.State
	submitting bool
}

// Option configures optional tracker collaborators.
type Option func(*Tracker)

// WithBus attaches an event bus; every successful mutation publishes to it.
func WithBus(bus *events.Bus) Option {
	return func(t *Tracker) { t.bus = bus }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Tracker) { t.recorder = r }
}

// WithEncoder overrides the photo encoder (tests use a pass-through quality).
func WithEncoder(e *photo.Encoder) Option {
	return func(t *Tracker) { t.encoder = e }
}

// NewTracker creates a tracker over the given store and submitter. Call
// Initialize before anything else.
func NewTracker(store storage.KVStore, submitter submit.Submitter, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		submitter: submitter,
		encoder:   photo.NewEncoder(photo.DefaultQuality),
		recorder:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Initialize loads the persisted state, falling back to the fixed seed when
// the stored value is missing or corrupt. The seed is persisted immediately
// so the store is never left empty.
func (t *Tracker) Initialize(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.store.Get(ctx, StateKey)
	if err == nil {
		var loaded hunt.State
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr == nil && len(loaded.Items) > 0 {
			t.state = loaded
			t.recorder.SetFoundCount(t.state.FoundCount())
			slog.Debug("Loaded hunt state", "items", t.state.Total(), "found", t.state.FoundCount())
			return nil
		}
		slog.Warn("Stored hunt state is corrupt, reseeding")
	} else if !storage.IsNotFound(err) {
		slog.Warn("Failed to read hunt state, reseeding", "error", err)
	}

	t.state = hunt.NewSeedState()
	t.recorder.SetFoundCount(0)
	if err := t.persistLocked(ctx); err != nil {
		return hberrors.StorageError("seed", err)
	}
	slog.Info("Seeded fresh hunt", "items", t.state.Total())
	return nil
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() hunt.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// FoundCount returns the number of items marked found.
func (t *Tracker) FoundCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.FoundCount()
}

// Total returns the number of items in the hunt.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Total()
}

// Reward returns the highest reward tier unlocked by the current found
// count; ok is false while no tier is reached.
func (t *Tracker) Reward() (tier hunt.RewardTier, ok bool) {
	return hunt.RewardFor(t.FoundCount())
}

// Submitting reports whether a submission is currently in flight.
func (t *Tracker) Submitting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitting
}

// MarkFound re-encodes the captured image, attaches it to the item, and
// persists. Unknown IDs are a silent no-op. The found flag and photo become
// visible together.
func (t *Tracker) MarkFound(ctx context.Context, itemID string, image []byte) error {
	encoded, err := t.encoder.Reencode(image)
	if err != nil {
		return hberrors.Wrap(err, hberrors.CategoryValidation, hberrors.SeverityError, "captured image is not decodable")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.state.IndexOf(itemID)
	if idx < 0 {
		slog.Debug("MarkFound for unknown item ignored", "id", itemID)
		return nil
	}

	prev := t.state.Items[idx]
	t.state.Items[idx].Found = true
	t.state.Items[idx].Photo = encoded

	if err := t.persistLocked(ctx); err != nil {
		t.state.Items[idx] = prev
		return hberrors.StorageError("mark_found", err)
	}

	t.recorder.IncMutation("mark_found")
	t.recorder.SetFoundCount(t.state.FoundCount())
	t.publishLocked(events.Event{Type: events.TypeItemFound, ItemID: itemID})
	return nil
}

// ClearFound discards the item's photo and clears its found flag. Unknown
// IDs and already-clear items are silent no-ops.
func (t *Tracker) ClearFound(ctx context.Context, itemID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.state.IndexOf(itemID)
	if idx < 0 {
		slog.Debug("ClearFound for unknown item ignored", "id", itemID)
		return nil
	}
	if !t.state.Items[idx].Found {
		return nil
	}

	prev := t.state.Items[idx]
	t.state.Items[idx].Found = false
	t.state.Items[idx].Photo = nil

	if err := t.persistLocked(ctx); err != nil {
		t.state.Items[idx] = prev
		return hberrors.StorageError("clear_found", err)
	}

	t.recorder.IncMutation("clear_found")
	t.recorder.SetFoundCount(t.state.FoundCount())
	t.publishLocked(events.Event{Type: events.TypeItemCleared, ItemID: itemID})
	return nil
}

// ResetAll clears every item and photo in a single persistence write.
// Titles, clues, IDs and order are untouched.
func (t *Tracker) ResetAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.state.Clone()
	for i := range t.state.Items {
		t.state.Items[i].Found = false
		t.state.Items[i].Photo = nil
	}

	if err := t.persistLocked(ctx); err != nil {
		t.state = prev
		return hberrors.StorageError("reset_all", err)
	}

	t.recorder.IncMutation("reset_all")
	t.recorder.SetFoundCount(0)
	t.publishLocked(events.Event{Type: events.TypeReset})
	return nil
}

// Submit reports the completed hunt to the remote endpoint. It fails before
// any network I/O when the hunt is incomplete or a submission is already in
// flight; a transport failure surfaces in the outcome message and never
// rolls back item state.
func (t *Tracker) Submit(ctx context.Context) (SubmitOutcome, error) {
	t.mu.Lock()
	if t.submitting {
		t.mu.Unlock()
		t.recorder.IncSubmitOutcome("rejected")
		return SubmitOutcome{}, ErrSubmitInFlight
	}
	if !t.state.Complete() {
		found, total := t.state.FoundCount(), t.state.Total()
		t.mu.Unlock()
		t.recorder.IncSubmitOutcome("rejected")
		return SubmitOutcome{}, hberrors.SubmissionNotReady(found, total)
	}

	t.submitting = true
	payload := submit.BuildPayload(&t.state)
	t.publishLocked(events.Event{Type: events.TypeSubmitStarted})
	t.mu.Unlock()

	start := time.Now()
	err := t.submitter.Submit(ctx, payload)
	elapsed := time.Since(start)

	t.mu.Lock()
	t.submitting = false
	t.mu.Unlock()

	t.recorder.ObserveSubmitDuration(elapsed)

	outcome := SubmitOutcome{OK: true, Message: MsgSubmitSuccess}
	if err != nil {
		outcome = SubmitOutcome{OK: false, Message: fmt.Sprintf("Failed: %v", err)}
		t.recorder.IncSubmitOutcome("failure")
		slog.Warn("Hunt submission failed", "error", err, "duration", elapsed)
	} else {
		t.recorder.IncSubmitOutcome("success")
		slog.Info("Hunt submitted", "duration", elapsed)
	}

	t.publish(events.Event{Type: events.TypeSubmitFinished, Message: outcome.Message})
	return outcome, nil
}

// persistLocked writes the serialized state under StateKey. Caller holds the lock.
func (t *Tracker) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(&t.state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return t.store.Set(ctx, StateKey, data)
}

// publishLocked emits an event with progress counters. Caller holds the lock.
func (t *Tracker) publishLocked(ev events.Event) {
	if t.bus == nil {
		return
	}
	ev.FoundCount = t.state.FoundCount()
	ev.Total = t.state.Total()
	t.bus.Publish(ev)
}

// publish is publishLocked for paths that already released the lock.
func (t *Tracker) publish(ev events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publishLocked(ev)
}
