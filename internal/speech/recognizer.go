package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ava_assistant/platform/ai/gemini"
	"ava_assistant/platform/config"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// ErrUnintelligible is returned when a recognizer produced no transcript.
var ErrUnintelligible = errors.New("speech could not be understood")

// Recognizer turns a captured clip into text.
type Recognizer interface {
	Name() string
	Transcribe(ctx context.Context, clip Clip) (string, error)
}

// NewRecognizer builds the recognizer selected by configuration.
func NewRecognizer(ctx context.Context, cfg config.SpeechConfig) (Recognizer, error) {
	switch cfg.GetSpeechRecognizer() {
	case config.RecognizerDeepgram:
		return NewDeepgramRecognizer(DeepgramConfig{
			APIKey:   cfg.GetDeepgramAPIKey(),
			Language: cfg.GetSpeechLanguage(),
		}), nil
	case config.RecognizerWhisper:
		rec, err := NewWhisperRecognizer(cfg.GetWhisperModelPath(), cfg.GetSpeechLanguage())
		if err != nil {
			return nil, fmt.Errorf("load whisper model: %w", err)
		}
		return rec, nil
	default:
		llm := gemini.NewModel(ctx, gemini.Config{
			APIKey: cfg.GetGoogleAPIKey(),
			Model:  cfg.GetGeminiModel(),
		})
		return NewGeminiRecognizer(llm, cfg.GetSpeechLanguage()), nil
	}
}

const transcribePrompt = `Transcribe the speech in the attached audio exactly as spoken. ` +
	`The expected language is %s. Reply with the transcript only, without quotes or commentary. ` +
	`If the audio contains no intelligible speech, reply with an empty message.`

// GeminiRecognizer sends the clip inline to a multimodal model.
type GeminiRecognizer struct {
	llm      model.LLM
	language string
}

func NewGeminiRecognizer(llm model.LLM, language string) *GeminiRecognizer {
	return &GeminiRecognizer{llm: llm, language: language}
}

func (g *GeminiRecognizer) Name() string {
	return "gemini:" + g.llm.Name()
}

func (g *GeminiRecognizer) Transcribe(ctx context.Context, clip Clip) (string, error) {
	var temperature float32
	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromText(fmt.Sprintf(transcribePrompt, g.language)),
				genai.NewPartFromBytes(clip.WAV(), "audio/wav"),
			}, genai.RoleUser),
		},
		Config: &genai.GenerateContentConfig{Temperature: &temperature},
	}

	var builder strings.Builder
	for resp, err := range g.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		for _, part := range resp.Content.Parts {
			if part != nil && !part.Thought {
				builder.WriteString(part.Text)
			}
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

// whisperLanguage reduces a locale such as "en-US" to the code whisper expects.
func whisperLanguage(locale string) string {
	lang, _, _ := strings.Cut(strings.TrimSpace(locale), "-")
	if lang == "" {
		return "auto"
	}
	return strings.ToLower(lang)
}

// UnavailableRecognizer stands in when the configured recognizer could not be
// built. Every call fails with the construction error.
type UnavailableRecognizer struct {
	name string
	err  error
}

func NewUnavailableRecognizer(name string, err error) *UnavailableRecognizer {
	return &UnavailableRecognizer{name: name, err: err}
}

func (u *UnavailableRecognizer) Name() string {
	return u.name
}

func (u *UnavailableRecognizer) Transcribe(context.Context, Clip) (string, error) {
	return "", u.err
}
