package speech

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// ErrNoSpeech is returned when nothing was said before the listen timeout.
var ErrNoSpeech = errors.New("no speech detected")

// Capturer records one phrase from an input device.
type Capturer interface {
	Capture(ctx context.Context, detector *PhraseDetector) (Clip, error)
}

// Microphone captures from the default input device through PortAudio.
type Microphone struct {
	sampleRate int
	frameSize  int
}

func NewMicrophone() *Microphone {
	return &Microphone{sampleRate: SampleRate, frameSize: FrameSize}
}

// Capture opens the default input stream and feeds frames to the detector
// until it reports a complete phrase or a timeout.
func (m *Microphone) Capture(ctx context.Context, detector *PhraseDetector) (Clip, error) {
	if err := portaudio.Initialize(); err != nil {
		return Clip{}, fmt.Errorf("initialize audio: %w", err)
	}
	defer func() {
		_ = portaudio.Terminate()
	}()

	buffer := make([]int16, m.frameSize)
	stream, err := portaudio.OpenDefaultStream(Channels, 0, float64(m.sampleRate), len(buffer), buffer)
	if err != nil {
		return Clip{}, fmt.Errorf("open input device: %w", err)
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		return Clip{}, fmt.Errorf("start input stream: %w", err)
	}
	defer func() {
		_ = stream.Stop()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return Clip{}, err
		}
		if err := stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
			return Clip{}, fmt.Errorf("read input stream: %w", err)
		}

		switch detector.Feed(buffer) {
		case PhraseComplete:
			return detector.Clip(), nil
		case PhraseTimedOut:
			return Clip{}, ErrNoSpeech
		}
	}
}

var _ Capturer = (*Microphone)(nil)
