package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var errMockExhausted = errors.New("mock: no response queued")

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockCall is one recorded Generate call with the context labels it
// carried.
type MockCall struct {
	Request
	Purpose   string
	SessionID string
}

// MockProvider is a deterministic Provider for tests and the "mock"
// provider setting. Responses queued for a purpose ("question-gen",
// "explanation") are used before the shared FIFO queue, so a test can
// script generation and explanations independently.
type MockProvider struct {
	mu        sync.Mutex
	queue     []MockResponse
	byPurpose map[string][]MockResponse
	Calls     []MockCall
}

// NewMockProvider creates a MockProvider whose shared queue holds responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses, byPurpose: make(map[string][]MockResponse)}
}

// Generate pops the next response for the call's purpose, falling back to
// the shared queue. With nothing queued it fails as an unavailable
// provider.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	purpose := PurposeFrom(ctx)
	m.Calls = append(m.Calls, MockCall{Request: req, Purpose: purpose, SessionID: SessionFrom(ctx)})

	var resp MockResponse
	switch q := m.byPurpose[purpose]; {
	case len(q) > 0:
		resp, m.byPurpose[purpose] = q[0], q[1:]
	case len(m.queue) > 0:
		resp, m.queue = m.queue[0], m.queue[1:]
	default:
		return nil, &ErrProviderUnavailable{Err: errMockExhausted}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends to the shared queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// AddResponseFor queues a response served only to calls labelled purpose.
func (m *MockProvider) AddResponseFor(purpose string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPurpose[purpose] = append(m.byPurpose[purpose], resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// CallsFor counts the calls labelled purpose.
func (m *MockProvider) CallsFor(purpose string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Purpose == purpose {
			n++
		}
	}
	return n
}
