package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/google/uuid"
)

// Message is one line of a session's history.
type Message struct {
	Role    core.Role
	Content string
}

// Options configures an InMemoryStore.
type Options struct {
	// MaxHistory is the number of user/assistant exchanges kept per session.
	MaxHistory int
}

// InMemoryStore is a volatile session store. It is safe for concurrent
// access and returns copies so callers cannot mutate internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
	opts     Options
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{MaxHistory: 2}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxHistory < 0 {
		opts.MaxHistory = 0
	}
	return &InMemoryStore{sessions: make(map[string][]Message), opts: opts}
}

// Create allocates a new session and returns its id.
func (s *InMemoryStore) Create() string {
	id := "session_" + uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// AddMessage appends a message to a session, creating it when unknown, and
// trims the history to the configured limit.
func (s *InMemoryStore) AddMessage(sessionID string, role core.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(sessionID, Message{Role: role, Content: content})
}

// AddExchange records a question and its answer.
func (s *InMemoryStore) AddExchange(sessionID, query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(sessionID, Message{Role: core.RoleUser, Content: query})
	s.appendLocked(sessionID, Message{Role: core.RoleAssistant, Content: answer})
}

func (s *InMemoryStore) appendLocked(sessionID string, m Message) {
	msgs := append(s.sessions[sessionID], m)
	if limit := s.opts.MaxHistory * 2; len(msgs) > limit {
		msgs = append([]Message(nil), msgs[len(msgs)-limit:]...)
	}
	s.sessions[sessionID] = msgs
}

// Messages returns a copy of the retained messages of a session.
func (s *InMemoryStore) Messages(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// History renders the retained messages as "User: ..." / "Assistant: ..."
// lines. It returns "" for unknown or empty sessions.
func (s *InMemoryStore) History(sessionID string) string {
	msgs := s.Messages(sessionID)
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, fmt.Sprintf("%s: %s", roleLabel(m.Role), m.Content))
	}
	return strings.Join(lines, "\n")
}

// Clear removes every message of a session.
func (s *InMemoryStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of known sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func roleLabel(r core.Role) string {
	switch r {
	case core.RoleUser:
		return "User"
	case core.RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}
