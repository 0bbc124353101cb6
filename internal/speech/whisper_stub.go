//go:build !whisper

package speech

import (
	"context"
	"errors"
)

// ErrWhisperUnavailable is returned when the binary was built without whisper.cpp.
var ErrWhisperUnavailable = errors.New("whisper support not compiled in; rebuild with -tags whisper")

// WhisperRecognizer is unavailable in this build.
type WhisperRecognizer struct{}

func NewWhisperRecognizer(modelPath, language string) (*WhisperRecognizer, error) {
	return nil, ErrWhisperUnavailable
}

func (w *WhisperRecognizer) Name() string {
	return "whisper"
}

func (w *WhisperRecognizer) Transcribe(context.Context, Clip) (string, error) {
	return "", ErrWhisperUnavailable
}

func (w *WhisperRecognizer) Close() error {
	return nil
}
