package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("SPEECH_RECOGNIZER", "gemini")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetGeminiModel() != "gemini-2.0-flash" {
		t.Fatalf("expected default model gemini-2.0-flash, got %q", cfg.GetGeminiModel())
	}
	if cfg.GetMapZoom() != 14 {
		t.Fatalf("expected zoom 14, got %d", cfg.GetMapZoom())
	}
	if cfg.GetGeocoderLimit() != MaxGeocoderLimit {
		t.Fatalf("expected geocoder limit %d, got %d", MaxGeocoderLimit, cfg.GetGeocoderLimit())
	}
	if cfg.GetListenTimeout() != 5*time.Second {
		t.Fatalf("expected listen timeout 5s, got %s", cfg.GetListenTimeout())
	}
	if cfg.IsLanguageBackendConfigured() {
		t.Fatal("expected backend to be reported as unconfigured without GOOGLE_API_KEY")
	}
}

func TestLoad_ClampsGeocoderLimit(t *testing.T) {
	t.Setenv("GEOCODER_LIMIT", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetGeocoderLimit() != 50 {
		t.Fatalf("expected limit clamped to 50, got %d", cfg.GetGeocoderLimit())
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "llama")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoad_MoonshotRequiresKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "moonshot")
	t.Setenv("MOONSHOT_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when MOONSHOT_API_KEY is missing")
	}
}

func TestLoad_WhisperRequiresModelPath(t *testing.T) {
	t.Setenv("SPEECH_RECOGNIZER", "whisper")
	t.Setenv("WHISPER_MODEL_PATH", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when WHISPER_MODEL_PATH is missing")
	}
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "llm timeout typo", key: "LLM_TIMEOUT", val: "60"},
		{name: "rate limit typo", key: "RATE_LIMIT_RPS", val: "five"},
		{name: "burst typo", key: "RATE_LIMIT_BURST", val: "1O"},
		{name: "geocoder limit typo", key: "GEOCODER_LIMIT", val: "fifty"},
		{name: "upload cap typo", key: "UPLOAD_MAX_BYTES", val: "10MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LLM_PROVIDER", "gemini")
			t.Setenv("SPEECH_RECOGNIZER", "gemini")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("expected error to name %s, got %v", tt.key, err)
			}
		})
	}
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	tests := []struct {
		key string
		val string
	}{
		{key: "LLM_TIMEOUT", val: "0s"},
		{key: "RATE_LIMIT_RPS", val: "0"},
		{key: "RATE_LIMIT_BURST", val: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("LLM_PROVIDER", "gemini")
			t.Setenv("SPEECH_RECOGNIZER", "gemini")
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
