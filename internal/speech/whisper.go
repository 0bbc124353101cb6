//go:build whisper

package speech

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// WhisperRecognizer runs whisper.cpp in process.
type WhisperRecognizer struct {
	mu       sync.Mutex
	model    whisper.Model
	language string
}

// NewWhisperRecognizer loads the model file once; it is shared by all calls.
func NewWhisperRecognizer(modelPath, language string) (*WhisperRecognizer, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, err
	}
	return &WhisperRecognizer{model: model, language: whisperLanguage(language)}, nil
}

func (w *WhisperRecognizer) Name() string {
	return "whisper"
}

// Transcribe decodes the clip. The context is only checked before decoding
// starts; whisper.cpp cannot be interrupted mid-run.
func (w *WhisperRecognizer) Transcribe(ctx context.Context, clip Clip) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model == nil {
		return "", errors.New("whisper: model closed")
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", err
	}
	wctx.SetTranslate(false)
	if err := wctx.SetLanguage(w.language); err != nil {
		return "", err
	}

	if err := wctx.Process(clip.Float32(), nil, nil, nil); err != nil {
		return "", err
	}

	var result strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		result.WriteString(segment.Text)
	}

	text := strings.TrimSpace(result.String())
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

// Close releases the model.
func (w *WhisperRecognizer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model == nil {
		return nil
	}
	err := w.model.Close()
	w.model = nil
	return err
}
