package assistant

import (
	"context"

	"ava_assistant/platform/ai/gemini"
	"ava_assistant/platform/ai/moonshot"
	"ava_assistant/platform/config"

	"google.golang.org/adk/model"
)

// NewBackend builds the language backend selected by configuration.
// The returned handle is immutable and shared by every request.
func NewBackend(ctx context.Context, cfg config.LanguageConfig) model.LLM {
	if cfg.GetLLMProvider() == config.ProviderMoonshot {
		return moonshot.NewModel(moonshot.Config{
			APIKey:  cfg.GetMoonshotAPIKey(),
			BaseURL: cfg.GetMoonshotBaseURL(),
			Model:   cfg.GetMoonshotModel(),
			Timeout: cfg.GetLLMTimeout(),
		})
	}

	return gemini.NewModel(ctx, gemini.Config{
		APIKey:  cfg.GetGoogleAPIKey(),
		Model:   cfg.GetGeminiModel(),
		Timeout: cfg.GetLLMTimeout(),
	})
}
