package speech

import (
	"context"
	"errors"
	"time"

	"ava_assistant/platform/apperr"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"

	"golang.org/x/sync/semaphore"
)

const (
	msgNoSpeech       = "No speech was detected. Please try again."
	msgUnintelligible = "Sorry, I could not understand what you said."
	msgDeviceFailure  = "The microphone could not be used."
	msgRecognition    = "Speech recognition failed."
)

// Listener captures one phrase and transcribes it.
type Listener struct {
	mic      Capturer
	rec      Recognizer
	device   *semaphore.Weighted
	detector DetectorConfig
	log      *logger.Logger
	metrics  metrics.Recorder
}

func NewListener(mic Capturer, rec Recognizer, detector DetectorConfig, log *logger.Logger, m metrics.Recorder) *Listener {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Listener{
		mic:      mic,
		rec:      rec,
		device:   semaphore.NewWeighted(1),
		detector: detector,
		log:      log.WithComponent("speech.listener"),
		metrics:  m,
	}
}

// Listen blocks until a phrase is captured and recognized. The input device
// is held exclusively for the capture. Every failure is reported as a
// recognition error; callers treat it as no input.
func (l *Listener) Listen(ctx context.Context) (string, error) {
	clip, err := l.capture(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := l.rec.Transcribe(ctx, clip)
	elapsed := time.Since(start)

	l.metrics.ObserveUpstream(metrics.ComponentRecognition, elapsed, err)
	l.log.WithContext(ctx).UpstreamCall(l.rec.Name(), elapsed, err)

	if errors.Is(err, ErrUnintelligible) {
		return "", apperr.Unprocessable(msgUnintelligible, err).WithOp("speech.Listen")
	}
	if err != nil {
		return "", apperr.Unprocessable(msgRecognition, err).WithOp("speech.Listen")
	}
	return text, nil
}

func (l *Listener) capture(ctx context.Context) (Clip, error) {
	if err := l.device.Acquire(ctx, 1); err != nil {
		return Clip{}, apperr.Unprocessable(msgDeviceFailure, err).WithOp("speech.Listen")
	}
	defer l.device.Release(1)

	clip, err := l.mic.Capture(ctx, NewPhraseDetector(l.detector))
	switch {
	case errors.Is(err, ErrNoSpeech):
		return Clip{}, apperr.Unprocessable(msgNoSpeech, err).WithOp("speech.Listen")
	case err != nil:
		l.log.WithContext(ctx).Warn("audio capture failed", "error", err)
		return Clip{}, apperr.Unprocessable(msgDeviceFailure, err).WithOp("speech.Listen")
	case len(clip.Samples) == 0:
		return Clip{}, apperr.Unprocessable(msgNoSpeech, ErrNoSpeech).WithOp("speech.Listen")
	}

	l.log.WithContext(ctx).Debug("phrase captured", "duration_ms", clip.Duration().Milliseconds())
	return clip, nil
}
