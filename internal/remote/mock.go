package remote

import (
	"context"
	"encoding/json"
	"sync"
)

// MockFetcher serves canned bodies by path and records every request.
// Paths without a body report no data.
type MockFetcher struct {
	mu       sync.Mutex
	bodies   map[string][]byte
	requests []string
}

// NewMockFetcher creates an empty mock.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{bodies: make(map[string][]byte)}
}

// Set registers a raw body for path.
func (m *MockFetcher) Set(path string, body string) *MockFetcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[path] = []byte(body)
	return m
}

// SetJSON registers the JSON encoding of v for path. It panics if v cannot be encoded.
func (m *MockFetcher) SetJSON(path string, v any) *MockFetcher {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return m.Set(path, string(data))
}

// Fetch implements Fetcher.
func (m *MockFetcher) Fetch(_ context.Context, path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, path)
	body, ok := m.bodies[path]
	return body, ok
}

// Requests returns every path fetched so far, in order.
func (m *MockFetcher) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// Count returns how many times path was fetched.
func (m *MockFetcher) Count(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.requests {
		if p == path {
			n++
		}
	}
	return n
}
