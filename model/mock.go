package model

import (
	"context"
	"errors"
	"sync"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/google/uuid"
)

// ErrScriptExhausted is returned by MockClient when no scripted reply remains.
var ErrScriptExhausted = errors.New("mock client: no scripted response left")

type mockReply struct {
	resp *Response
	err  error
}

// MockClient is a lightweight in‑memory Client replaying scripted replies in
// order. It records every request it receives and is safe for concurrent use.
type MockClient struct {
	info Info

	mu       sync.Mutex
	replies  []mockReply
	requests []Request
}

// NewMockClient constructs a MockClient with tool support enabled.
func NewMockClient(name string) *MockClient {
	return &MockClient{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
	}
}

// Enqueue appends scripted responses.
func (m *MockClient) Enqueue(resps ...*Response) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range resps {
		m.replies = append(m.replies, mockReply{resp: r})
	}
	return m
}

// EnqueueError appends a scripted failure. Plain errors are wrapped in
// *TransportError so callers observe the same shape as real providers.
func (m *MockClient) EnqueueError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	var te *TransportError
	if !errors.As(err, &te) {
		err = &TransportError{Provider: "mock", Err: err}
	}
	m.replies = append(m.replies, mockReply{err: err})
	return m
}

// Request implements Client.
func (m *MockClient) Request(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, cloneRequest(req))

	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Provider: "mock", Err: err}
	}
	if len(m.replies) == 0 {
		return nil, &TransportError{Provider: "mock", Err: ErrScriptExhausted}
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &Response{Content: core.CloneBlocks(next.resp.Content), StopReason: next.resp.StopReason}, nil
}

// Requests returns a copy of every request received so far.
func (m *MockClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	for i, r := range m.requests {
		out[i] = cloneRequest(r)
	}
	return out
}

// CallCount returns how many requests were received.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Remaining returns how many scripted replies are still queued.
func (m *MockClient) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies)
}

// Info implements Client.
func (m *MockClient) Info() Info { return m.info }

// TextResponse builds an end-of-turn response carrying text.
func TextResponse(text string) *Response {
	return &Response{Content: []core.Block{core.TextBlock{Text: text}}, StopReason: StopReasonEnd}
}

// ToolUseResponse builds a tool-use response. Blocks without an ID receive a
// random one.
func ToolUseResponse(text string, uses ...core.ToolUseBlock) *Response {
	var blocks []core.Block
	if text != "" {
		blocks = append(blocks, core.TextBlock{Text: text})
	}
	for _, u := range uses {
		if u.ID == "" {
			u.ID = "toolu_" + uuid.NewString()
		}
		blocks = append(blocks, u)
	}
	return &Response{Content: blocks, StopReason: StopReasonToolUse}
}

func cloneRequest(r Request) Request {
	cp := r
	cp.Messages = core.CloneMessages(r.Messages)
	if r.Tools != nil {
		cp.Tools = make([]ToolDefinition, len(r.Tools))
		for i, t := range r.Tools {
			cp.Tools[i] = ToolDefinition{Name: t.Name, Description: t.Description, InputSchema: core.CloneMap(t.InputSchema)}
		}
	}
	return cp
}
