package speech

import (
	"math"
	"time"
)

// PhraseState is the outcome of feeding one frame to a PhraseDetector.
type PhraseState int

const (
	// PhraseWaiting means no speech has started yet.
	PhraseWaiting PhraseState = iota
	// PhraseCapturing means speech started and the phrase is still open.
	PhraseCapturing
	// PhraseComplete means the phrase ended with a pause or hit the length limit.
	PhraseComplete
	// PhraseTimedOut means no speech started within the listen timeout.
	PhraseTimedOut
)

// DetectorConfig tunes energy-based phrase detection.
type DetectorConfig struct {
	SampleRate      int
	ListenTimeout   time.Duration // wait for speech to start
	PhraseTimeLimit time.Duration // max phrase length
	Calibration     time.Duration // ambient noise sampling at the start
	Pause           time.Duration // silence that ends a phrase
	PreRoll         time.Duration // audio kept from before the phrase started
	MinThreshold    float64       // floor for the energy threshold (RMS)
	ThresholdRatio  float64       // threshold = ambient RMS * ratio
}

// DefaultDetectorConfig returns the tuning used for live capture.
func DefaultDetectorConfig(listenTimeout, phraseLimit time.Duration) DetectorConfig {
	return DetectorConfig{
		SampleRate:      SampleRate,
		ListenTimeout:   listenTimeout,
		PhraseTimeLimit: phraseLimit,
		Calibration:     500 * time.Millisecond,
		Pause:           800 * time.Millisecond,
		PreRoll:         300 * time.Millisecond,
		MinThreshold:    300,
		ThresholdRatio:  1.5,
	}
}

// PhraseDetector splits a stream of frames into one spoken phrase.
// Frames of any length are accepted; time is measured in samples.
type PhraseDetector struct {
	cfg DetectorConfig

	threshold   float64
	ambientSum  float64
	ambientN    int
	calibrating bool

	elapsed  int // samples seen after calibration while waiting
	silence  int // trailing silent samples inside the phrase
	preRoll  []int16
	captured []int16
	started  bool
	state    PhraseState
}

func NewPhraseDetector(cfg DetectorConfig) *PhraseDetector {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = SampleRate
	}
	if cfg.ThresholdRatio <= 0 {
		cfg.ThresholdRatio = 1
	}
	return &PhraseDetector{
		cfg:         cfg,
		threshold:   cfg.MinThreshold,
		calibrating: cfg.Calibration > 0,
	}
}

// Threshold is the current energy threshold.
func (d *PhraseDetector) Threshold() float64 {
	return d.threshold
}

// Feed consumes one frame. After PhraseComplete or PhraseTimedOut further
// frames are ignored.
func (d *PhraseDetector) Feed(frame []int16) PhraseState {
	if d.state == PhraseComplete || d.state == PhraseTimedOut || len(frame) == 0 {
		return d.state
	}

	energy := rms(frame)

	if d.calibrating {
		d.ambientSum += energy * float64(len(frame))
		d.ambientN += len(frame)
		if d.ambientN >= d.samples(d.cfg.Calibration) {
			d.threshold = math.Max(d.cfg.MinThreshold, d.ambientSum/float64(d.ambientN)*d.cfg.ThresholdRatio)
			d.calibrating = false
		}
		return d.state
	}

	if !d.started {
		if energy <= d.threshold {
			d.keepPreRoll(frame)
			d.elapsed += len(frame)
			if d.cfg.ListenTimeout > 0 && d.elapsed >= d.samples(d.cfg.ListenTimeout) {
				d.state = PhraseTimedOut
			}
			return d.state
		}
		d.started = true
		d.captured = append(d.captured, d.preRoll...)
		d.preRoll = nil
		d.state = PhraseCapturing
	}

	d.captured = append(d.captured, frame...)
	if energy > d.threshold {
		d.silence = 0
	} else {
		d.silence += len(frame)
	}

	phraseLen := len(d.captured)
	switch {
	case d.silence >= d.samples(d.cfg.Pause):
		d.captured = d.captured[:phraseLen-d.silence]
		d.state = PhraseComplete
	case d.cfg.PhraseTimeLimit > 0 && phraseLen >= d.samples(d.cfg.PhraseTimeLimit):
		d.state = PhraseComplete
	}
	return d.state
}

// Clip returns the captured phrase. It is empty unless speech started.
func (d *PhraseDetector) Clip() Clip {
	samples := make([]int16, len(d.captured))
	copy(samples, d.captured)
	return Clip{Samples: samples, SampleRate: d.cfg.SampleRate}
}

func (d *PhraseDetector) keepPreRoll(frame []int16) {
	limit := d.samples(d.cfg.PreRoll)
	if limit <= 0 {
		return
	}
	d.preRoll = append(d.preRoll, frame...)
	if over := len(d.preRoll) - limit; over > 0 {
		d.preRoll = append(d.preRoll[:0:0], d.preRoll[over:]...)
	}
}

func (d *PhraseDetector) samples(dur time.Duration) int {
	return int(dur * time.Duration(d.cfg.SampleRate) / time.Second)
}

func rms(frame []int16) float64 {
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}
