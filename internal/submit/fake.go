package submit

import (
	"context"
	"sync"
)

// FakeSubmitter records submissions for tests.
type FakeSubmitter struct {
	mu sync.Mutex

	// Err, when set, is returned from Submit (simulating transport failure).
	Err error
	// Block, when non-nil, is received from before Submit returns, letting
	// tests hold a submission in flight.
	Block chan struct{}

	calls    int
	payloads []Payload
}

// Submit records the payload and returns the configured error.
func (f *FakeSubmitter) Submit(ctx context.Context, p Payload) error {
	f.mu.Lock()
	f.calls++
	f.payloads = append(f.payloads, p)
	block := f.Block
	err := f.Err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Calls returns how many times Submit ran.
func (f *FakeSubmitter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastPayload returns the most recent payload, or false if none.
func (f *FakeSubmitter) LastPayload() (Payload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		return Payload{}, false
	}
	return f.payloads[len(f.payloads)-1], true
}
