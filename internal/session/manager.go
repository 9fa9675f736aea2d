package session

import (
	"errors"
	"sync"
	"time"

	"github.com/caseforge/casechat/internal/ai"
	"github.com/caseforge/casechat/internal/transcript"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrIdentityRequired = errors.New("name and email are required")
	ErrAlreadyActive    = errors.New("identity already submitted for this session")
)

type State string

const (
	AwaitingIdentity State = "awaiting_identity"
	Active           State = "active"
)

// Session is the per-visit context: a generated id, the one-shot identity
// submission, and the ordered in-memory conversation (system turn included).
// The id is fixed at creation; identity fields are fixed once submitted.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	state    State
	name     string
	email    string
	messages []ai.Message
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Active() bool { return s.State() == Active }

func (s *Session) Identity() (name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, s.email
}

// Append adds one turn to the in-memory conversation.
func (s *Session) Append(m ai.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}

// Snapshot copies the full ordered conversation, system turn included.
func (s *Session) Snapshot() []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ai.Message(nil), s.messages...)
}

// History copies the conversation without the system turn, for rendering.
func (s *Session) History() []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ai.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if m.Role == transcript.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Manager keeps live sessions in memory for the lifetime of the process.
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	systemPrompt string
}

func NewManager(systemPrompt string) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		systemPrompt: systemPrompt,
	}
}

// Begin creates a session with a fresh id, awaiting the identity submission.
func (m *Manager) Begin() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		state:     AwaitingIdentity,
	}
	if m.systemPrompt != "" {
		s.messages = []ai.Message{{Role: transcript.RoleSystem, Content: m.systemPrompt}}
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// SubmitIdentity activates the session. Both fields must be non-empty and
// the gate fires at most once; email format is deliberately not validated.
func (m *Manager) SubmitIdentity(id, name, email string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Active {
		return ErrAlreadyActive
	}
	if name == "" || email == "" {
		return ErrIdentityRequired
	}
	s.name = name
	s.email = email
	s.state = Active
	return nil
}

// End destroys the session. Ending an unknown id is a no-op.
func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
