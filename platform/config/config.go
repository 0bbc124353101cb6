// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported language backends.
const (
	ProviderGemini   = "gemini"
	ProviderMoonshot = "moonshot"
)

// Supported speech recognizers.
const (
	RecognizerGemini   = "gemini"
	RecognizerDeepgram = "deepgram"
	RecognizerWhisper  = "whisper"
)

// MaxGeocoderLimit is the largest batch the geocoding service is asked for.
const MaxGeocoderLimit = 50

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// LanguageConfig provides settings for the language backend client.
type LanguageConfig interface {
	GetLLMProvider() string
	GetGoogleAPIKey() string
	GetGeminiModel() string
	GetMoonshotAPIKey() string
	GetMoonshotModel() string
	GetMoonshotBaseURL() string
	GetLLMTimeout() time.Duration
}

// SpeechConfig provides settings for speech capture, recognition and synthesis.
type SpeechConfig interface {
	GetSpeechRecognizer() string
	GetSpeechLanguage() string
	GetGoogleAPIKey() string
	GetGeminiModel() string
	GetDeepgramAPIKey() string
	GetWhisperModelPath() string
	GetListenTimeout() time.Duration
	GetPhraseTimeLimit() time.Duration
	GetTTSCommand() string
	GetTTSVoice() string
}

// GeocodingConfig provides settings for the geocoding client.
type GeocodingConfig interface {
	GetNominatimURL() string
	GetGeocoderUserAgent() string
	GetGeocoderLimit() int
	GetGeocoderRate() float64
}

// MapConfig provides settings for the map renderer.
type MapConfig interface {
	GetMapZoom() int
}

// UploadConfig provides settings for image uploads.
type UploadConfig interface {
	GetUploadMaxBytes() int64
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	Env               string
	HTTPAddr          string
	CORSOrigins       []string
	RateLimitRPS      float64
	RateLimitBurst    int
	LLMProvider       string
	GoogleAPIKey      string
	GeminiModel       string
	MoonshotAPIKey    string
	MoonshotModel     string
	MoonshotBaseURL   string
	LLMTimeout        time.Duration
	SpeechRecognizer  string
	SpeechLanguage    string
	DeepgramAPIKey    string
	WhisperModelPath  string
	ListenTimeout     time.Duration
	PhraseTimeLimit   time.Duration
	TTSCommand        string
	TTSVoice          string
	NominatimURL      string
	GeocoderUserAgent string
	GeocoderLimit     int
	GeocoderRate      float64
	MapZoom           int
	UploadMaxBytes    int64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// LanguageConfig implementation
func (c *Config) GetLLMProvider() string       { return c.LLMProvider }
func (c *Config) GetGoogleAPIKey() string      { return c.GoogleAPIKey }
func (c *Config) GetGeminiModel() string       { return c.GeminiModel }
func (c *Config) GetMoonshotAPIKey() string    { return c.MoonshotAPIKey }
func (c *Config) GetMoonshotModel() string     { return c.MoonshotModel }
func (c *Config) GetMoonshotBaseURL() string   { return c.MoonshotBaseURL }
func (c *Config) GetLLMTimeout() time.Duration { return c.LLMTimeout }

// SpeechConfig implementation
func (c *Config) GetSpeechRecognizer() string       { return c.SpeechRecognizer }
func (c *Config) GetSpeechLanguage() string         { return c.SpeechLanguage }
func (c *Config) GetDeepgramAPIKey() string         { return c.DeepgramAPIKey }
func (c *Config) GetWhisperModelPath() string       { return c.WhisperModelPath }
func (c *Config) GetListenTimeout() time.Duration   { return c.ListenTimeout }
func (c *Config) GetPhraseTimeLimit() time.Duration { return c.PhraseTimeLimit }
func (c *Config) GetTTSCommand() string             { return c.TTSCommand }
func (c *Config) GetTTSVoice() string               { return c.TTSVoice }

// GeocodingConfig implementation
func (c *Config) GetNominatimURL() string      { return c.NominatimURL }
func (c *Config) GetGeocoderUserAgent() string { return c.GeocoderUserAgent }
func (c *Config) GetGeocoderLimit() int        { return c.GeocoderLimit }
func (c *Config) GetGeocoderRate() float64     { return c.GeocoderRate }

// MapConfig implementation
func (c *Config) GetMapZoom() int { return c.MapZoom }

// UploadConfig implementation
func (c *Config) GetUploadMaxBytes() int64 { return c.UploadMaxBytes }

// IsLanguageBackendConfigured reports whether the selected backend has a credential.
// Startup does not require one; calls fail at request time instead.
func (c *Config) IsLanguageBackendConfigured() bool {
	if c.LLMProvider == ProviderMoonshot {
		return c.MoonshotAPIKey != ""
	}
	return c.GoogleAPIKey != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envParser{}
	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080")),
		RateLimitRPS:      env.asFloat("RATE_LIMIT_RPS", "5"),
		RateLimitBurst:    env.asInt("RATE_LIMIT_BURST", "10"),
		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		MoonshotAPIKey:    getEnv("MOONSHOT_API_KEY", ""),
		MoonshotModel:     getEnv("MOONSHOT_MODEL", ""),
		MoonshotBaseURL:   getEnv("MOONSHOT_BASE_URL", ""),
		LLMTimeout:        env.asDuration("LLM_TIMEOUT", "60s"),
		SpeechRecognizer:  strings.ToLower(getEnv("SPEECH_RECOGNIZER", RecognizerGemini)),
		SpeechLanguage:    getEnv("SPEECH_LANGUAGE", "en-US"),
		DeepgramAPIKey:    getEnv("DEEPGRAM_API_KEY", ""),
		WhisperModelPath:  getEnv("WHISPER_MODEL_PATH", ""),
		ListenTimeout:     env.asDuration("LISTEN_TIMEOUT", "5s"),
		PhraseTimeLimit:   env.asDuration("PHRASE_TIME_LIMIT", "15s"),
		TTSCommand:        getEnv("TTS_COMMAND", "espeak-ng"),
		TTSVoice:          getEnv("TTS_VOICE", ""),
		NominatimURL:      getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "ava-map-bot"),
		GeocoderLimit:     clampLimit(env.asInt("GEOCODER_LIMIT", "50")),
		GeocoderRate:      env.asFloat("GEOCODER_RATE", "1"),
		MapZoom:           env.asInt("MAP_ZOOM", "14"),
		UploadMaxBytes:    env.asInt64("UPLOAD_MAX_BYTES", "10485760"),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
	case ProviderMoonshot:
		if c.MoonshotAPIKey == "" {
			return fmt.Errorf("MOONSHOT_API_KEY is required when LLM_PROVIDER is moonshot")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.SpeechRecognizer {
	case RecognizerGemini:
	case RecognizerDeepgram:
		if c.DeepgramAPIKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY is required when SPEECH_RECOGNIZER is deepgram")
		}
	case RecognizerWhisper:
		if c.WhisperModelPath == "" {
			return fmt.Errorf("WHISPER_MODEL_PATH is required when SPEECH_RECOGNIZER is whisper")
		}
	default:
		return fmt.Errorf("unsupported SPEECH_RECOGNIZER %q", c.SpeechRecognizer)
	}

	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be a positive duration")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.ListenTimeout <= 0 || c.PhraseTimeLimit <= 0 {
		return fmt.Errorf("LISTEN_TIMEOUT and PHRASE_TIME_LIMIT must be positive durations")
	}
	if c.GeocoderRate <= 0 {
		return fmt.Errorf("GEOCODER_RATE must be positive")
	}
	if c.MapZoom < 0 || c.MapZoom > 19 {
		return fmt.Errorf("MAP_ZOOM must be between 0 and 19")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envParser reads typed variables and keeps every malformed value, so a
// typo fails startup instead of turning into zero.
type envParser struct {
	errs []error
}

func (p *envParser) fail(key, kind, raw string) {
	p.errs = append(p.errs, fmt.Errorf("%s: invalid %s %q", key, kind, raw))
}

func (p *envParser) asDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, "duration", raw)
	}
	return d
}

func (p *envParser) asInt(key, fallback string) int {
	raw := getEnv(key, fallback)
	result, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, "integer", raw)
	}
	return result
}

func (p *envParser) asInt64(key, fallback string) int64 {
	raw := getEnv(key, fallback)
	result, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		p.fail(key, "integer", raw)
	}
	return result
}

func (p *envParser) asFloat(key, fallback string) float64 {
	raw := getEnv(key, fallback)
	result, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		p.fail(key, "number", raw)
	}
	return result
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxGeocoderLimit {
		return MaxGeocoderLimit
	}
	return limit
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
