package chat

import (
	"context"
	"errors"
	"log"

	"github.com/caseforge/casechat/internal/ai"
	"github.com/caseforge/casechat/internal/session"
	"github.com/caseforge/casechat/internal/transcript"
)

var (
	ErrEmptyMessage     = errors.New("message must not be empty")
	ErrSessionNotActive = errors.New("identity not submitted for this session")
)

// Service runs one conversation turn: append the user message, write it
// through to the store, call the completion provider with the full ordered
// list, then append and persist the reply.
type Service struct {
	store    *transcript.Store
	registry *ai.Registry
	provider string
	model    string
}

func NewService(store *transcript.Store, registry *ai.Registry, provider, model string) *Service {
	return &Service{store: store, registry: registry, provider: provider, model: model}
}

// Reply carries the assistant text plus a flag telling the caller that one
// or both store writes failed. Store failures never abort the turn.
type Reply struct {
	Text         string
	StoreWarning bool
}

func (s *Service) Send(ctx context.Context, sess *session.Session, text string) (Reply, error) {
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}
	if !sess.Active() {
		return Reply{}, ErrSessionNotActive
	}
	name, email := sess.Identity()

	provider, err := s.registry.Get(ctx, s.provider, s.model)
	if err != nil {
		return Reply{}, err
	}

	// 1) user turn: in-memory list first, then write-through.
	sess.Append(ai.Message{Role: transcript.RoleUser, Content: text})

	storeWarn := false
	userTurn := &transcript.Turn{
		SessionID: sess.ID,
		Name:      name,
		Email:     email,
		Role:      transcript.RoleUser,
		Message:   text,
	}
	if err := s.store.Append(ctx, userTurn); err != nil {
		log.Printf("[chat] append user turn failed session=%s err=%v", sess.ID, err)
		storeWarn = true
	}

	// 2) blocking completion call with the full conversation, system turn
	// included. On failure the user's turn stays persisted and no
	// placeholder assistant row is written.
	replyText, err := provider.Chat(ctx, sess.Snapshot())
	if err != nil {
		return Reply{StoreWarning: storeWarn}, err
	}

	// 3) assistant turn, same write-through policy.
	sess.Append(ai.Message{Role: transcript.RoleAssistant, Content: replyText})

	assistantTurn := &transcript.Turn{
		SessionID: sess.ID,
		Name:      name,
		Email:     email,
		Role:      transcript.RoleAssistant,
		Message:   replyText,
	}
	if err := s.store.Append(ctx, assistantTurn); err != nil {
		log.Printf("[chat] append assistant turn failed session=%s err=%v", sess.ID, err)
		storeWarn = true
	}

	return Reply{Text: replyText, StoreWarning: storeWarn}, nil
}
