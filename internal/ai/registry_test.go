package ai

import (
	"context"
	"testing"
)

type staticProvider struct {
	model string
}

func (p *staticProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	_ = ctx
	_ = messages
	return p.model, nil
}

func TestRegistry_GetResolvesFactoryDefault(t *testing.T) {
	reg := NewRegistry()
	reg.Register("fake", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		if model == "" {
			model = "default-model"
		}
		return &staticProvider{model: model}, nil
	})

	p, err := reg.Get(context.Background(), "fake", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got, _ := p.Chat(context.Background(), nil); got != "default-model" {
		t.Fatalf("empty model must resolve to the factory default, got %q", got)
	}

	p, err = reg.Get(context.Background(), "fake", "override")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got, _ := p.Chat(context.Background(), nil); got != "override" {
		t.Fatalf("explicit model must pass through, got %q", got)
	}
}

func TestRegistry_NameNormalization(t *testing.T) {
	reg := NewRegistry()
	reg.Register(" OpenAI ", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		return &staticProvider{model: model}, nil
	})

	if _, err := reg.Get(context.Background(), "openai", "m"); err != nil {
		t.Fatalf("lookup must be case-insensitive and trimmed: %v", err)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Get(context.Background(), "nope", ""); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
