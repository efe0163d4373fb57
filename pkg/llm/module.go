package llm

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/pkg/llm/genai"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

// Module provides the llm fx.Module
var Module = fx.Module("llm",
	fx.Provide(NewProvider),
)

// NewProvider selects an LLM provider from configuration, falling back to
// a noop provider when nothing is configured.
func NewProvider(cfg *config.Config, log *slog.Logger) (Provider, error) {
	scopedLog := log.With(logger.Scope("llm"))

	if !cfg.LLM.IsEnabled() {
		scopedLog.Info("LLM provider disabled - no configuration provided")
		return NoopProvider{}, nil
	}

	client, err := genai.NewClient(context.Background(), genai.Config{
		APIKey:          cfg.LLM.GoogleAPIKey,
		Model:           cfg.LLM.Model,
		Timeout:         cfg.LLM.Timeout,
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}, genai.WithLogger(scopedLog))
	if err != nil {
		scopedLog.Error("failed to initialize LLM client", logger.Error(err))
		return NoopProvider{}, nil
	}

	scopedLog.Info("LLM provider initialized", slog.String("model", cfg.LLM.Model))
	return client, nil
}
