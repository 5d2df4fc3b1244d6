package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockStore is an in-memory implementation of KVStore for testing.
type MockStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	calls  MockCalls

	// FailNext, when set, makes the next operation return this error.
	FailNext error
}

// MockCalls tracks method invocations for test verification.
type MockCalls struct {
	Get    int
	Set    int
	Delete int
	List   int
}

// NewMockStore creates a new in-memory key-value store.
func NewMockStore() *MockStore {
	return &MockStore{
		values: make(map[string][]byte),
	}
}

func (m *MockStore) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

// Get retrieves the value stored under key.
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Get++

	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound{Key: key}
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value under key.
func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Set++

	if err := m.takeFailure(); err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

// Delete removes a key.
func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Delete++

	if err := m.takeFailure(); err != nil {
		return err
	}
	if _, ok := m.values[key]; !ok {
		return ErrNotFound{Key: key}
	}
	delete(m.values, key)
	return nil
}

// List returns all keys with the given prefix.
func (m *MockStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.List++

	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Close releases resources (no-op for mock).
func (m *MockStore) Close() error {
	return nil
}

// GetCalls returns the number of times each method was called.
func (m *MockStore) GetCalls() MockCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Size returns the number of stored keys.
func (m *MockStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Reset clears all stored values and call counts.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string][]byte)
	m.calls = MockCalls{}
}

// String returns a string representation for debugging.
func (m *MockStore) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("MockStore{keys: %d, calls: %+v}", len(m.values), m.calls)
}
