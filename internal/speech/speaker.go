package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ava_assistant/platform/apperr"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"
	"ava_assistant/platform/sanitize"

	"golang.org/x/sync/semaphore"
)

const msgSynthesisUnavailable = "speech synthesis unavailable"

// CommandRunner runs an external program to completion with input on stdin.
type CommandRunner func(ctx context.Context, input, name string, args ...string) error

// Speaker reads text aloud through a local synthesis engine such as
// espeak-ng or say. Both read the text from stdin when no text argument is
// given and take -v for the voice. The text never appears in argv, so a
// leading dash cannot be parsed as an option.
type Speaker struct {
	command string
	voice   string
	run     CommandRunner
	device  *semaphore.Weighted
	log     *logger.Logger
	metrics metrics.Recorder
}

func NewSpeaker(command, voice string, log *logger.Logger, m metrics.Recorder) *Speaker {
	return NewSpeakerWithRunner(command, voice, runCommand, log, m)
}

func NewSpeakerWithRunner(command, voice string, run CommandRunner, log *logger.Logger, m metrics.Recorder) *Speaker {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Speaker{
		command: command,
		voice:   voice,
		run:     run,
		device:  semaphore.NewWeighted(1),
		log:     log.WithComponent("speech.speaker"),
		metrics: m,
	}
}

// Speak blocks until playback completes. The output device is held
// exclusively while the engine runs. Markdown in the text is not read aloud.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = sanitize.Speech(text)
	if text == "" {
		return apperr.Validation("Nothing to speak.").WithOp("speech.Speak")
	}

	if err := s.device.Acquire(ctx, 1); err != nil {
		return apperr.Wrap(apperr.KindInternal, msgSynthesisUnavailable, err).WithOp("speech.Speak")
	}
	defer s.device.Release(1)

	var args []string
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}

	start := time.Now()
	err := s.run(ctx, text, s.command, args...)
	elapsed := time.Since(start)

	s.metrics.ObserveUpstream(metrics.ComponentSynthesis, elapsed, err)
	s.log.WithContext(ctx).UpstreamCall(s.command, elapsed, err)

	if err != nil {
		return apperr.Wrap(apperr.KindInternal, msgSynthesisUnavailable, err).WithOp("speech.Speak")
	}
	return nil
}

func runCommand(ctx context.Context, input, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
