package handlers

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/caseforge/casechat/internal/admin"
	"github.com/caseforge/casechat/internal/ai"
	"github.com/caseforge/casechat/internal/chat"
	"github.com/caseforge/casechat/internal/config"
	"github.com/caseforge/casechat/internal/session"
	"github.com/caseforge/casechat/internal/store/rabbitmq"
	"github.com/caseforge/casechat/internal/transcript"
)

type Handler struct {
	Cfg      config.Config
	Sessions *session.Manager
	ChatSvc  *chat.Service
	AdminSvc *admin.Service
	Rabbit   *rabbitmq.Publisher
}

func NewHandler(db *gorm.DB, cfg config.Config, cache admin.Cache, rabbit *rabbitmq.Publisher) *Handler {
	store := transcript.NewStore(db)

	reg := ai.NewRegistry()
	reg.Register("openai", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenAIModel
		}
		return ai.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, m, cfg.ChatTemperature), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m, cfg.ChatTemperature), nil
	})

	// Factories default their own model, so the service can pass the
	// configured provider with an empty model. Fail fast on a bad name.
	if _, err := reg.Get(context.Background(), cfg.AIProvider, ""); err != nil {
		panic(fmt.Sprintf("unsupported AI_PROVIDER=%q", cfg.AIProvider))
	}

	return &Handler{
		Cfg:      cfg,
		Sessions: session.NewManager(cfg.SystemPrompt),
		ChatSvc:  chat.NewService(store, reg, cfg.AIProvider, ""),
		AdminSvc: admin.NewService(store, cache, db, cfg.ExportDir),
		Rabbit:   rabbit,
	}
}
