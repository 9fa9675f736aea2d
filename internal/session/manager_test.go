package session

import (
	"errors"
	"testing"

	"github.com/caseforge/casechat/internal/ai"
	"github.com/caseforge/casechat/internal/transcript"
)

func TestBegin_SeedsSystemTurn(t *testing.T) {
	m := NewManager("be helpful")

	s := m.Begin()
	if s.ID == "" {
		t.Fatalf("expected generated session id")
	}
	if s.State() != AwaitingIdentity {
		t.Fatalf("expected awaiting state, got %q", s.State())
	}

	msgs := s.Snapshot()
	if len(msgs) != 1 || msgs[0].Role != transcript.RoleSystem || msgs[0].Content != "be helpful" {
		t.Fatalf("expected seeded system turn, got %+v", msgs)
	}
	if h := s.History(); len(h) != 0 {
		t.Fatalf("system turn must not appear in history, got %+v", h)
	}
}

func TestSubmitIdentity_Gate(t *testing.T) {
	m := NewManager("")
	s := m.Begin()

	if err := m.SubmitIdentity(s.ID, "", "jdoe@example.edu"); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("empty name: got %v", err)
	}
	if err := m.SubmitIdentity(s.ID, "J. Doe", ""); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("empty email: got %v", err)
	}
	if s.Active() {
		t.Fatalf("session must stay inactive after rejected submissions")
	}

	if err := m.SubmitIdentity(s.ID, "J. Doe", "jdoe@example.edu"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !s.Active() {
		t.Fatalf("expected active session")
	}
	name, email := s.Identity()
	if name != "J. Doe" || email != "jdoe@example.edu" {
		t.Fatalf("identity mismatch: %q %q", name, email)
	}

	// The gate cannot re-trigger within a session.
	if err := m.SubmitIdentity(s.ID, "Other", "other@example.edu"); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("resubmit: got %v", err)
	}
	name, email = s.Identity()
	if name != "J. Doe" || email != "jdoe@example.edu" {
		t.Fatalf("identity must be immutable, got %q %q", name, email)
	}
}

func TestSubmitIdentity_UnknownSession(t *testing.T) {
	m := NewManager("")
	if err := m.SubmitIdentity("nope", "a", "b@c"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestEnd_RemovesSession(t *testing.T) {
	m := NewManager("")
	s := m.Begin()
	m.End(s.ID)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after End, got %v", err)
	}
	m.End(s.ID) // no-op
}

func TestSessionIDsAreUnique(t *testing.T) {
	m := NewManager("")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := m.Begin()
		if seen[s.ID] {
			t.Fatalf("duplicate session id %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestAppendAndHistoryOrder(t *testing.T) {
	m := NewManager("sys")
	s := m.Begin()
	s.Append(ai.Message{Role: transcript.RoleUser, Content: "one"})
	s.Append(ai.Message{Role: transcript.RoleAssistant, Content: "two"})

	h := s.History()
	if len(h) != 2 || h[0].Content != "one" || h[1].Content != "two" {
		t.Fatalf("unexpected history: %+v", h)
	}
	if snap := s.Snapshot(); len(snap) != 3 || snap[0].Role != transcript.RoleSystem {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
