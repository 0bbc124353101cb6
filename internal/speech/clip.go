// Package speech captures spoken queries from the microphone, turns them into
// text through a recognition service and reads answers back through a local
// synthesis engine.
package speech

import (
	"bytes"
	"encoding/binary"
	"time"
)

const (
	// SampleRate of captured audio. Every supported recognizer accepts 16 kHz mono.
	SampleRate = 16000
	// Channels of captured audio.
	Channels = 1
	// FrameSize is the number of samples read per device call (30ms).
	FrameSize = SampleRate * 30 / 1000

	bitsPerSample = 16
)

// Clip is one captured phrase as signed 16-bit PCM.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Duration of the clip.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// Float32 returns the samples scaled to [-1, 1].
func (c Clip) Float32() []float32 {
	out := make([]float32, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = float32(s) / 32768
	}
	return out
}

// WAV encodes the clip as a canonical RIFF/WAVE file.
func (c Clip) WAV() []byte {
	rate := c.SampleRate
	if rate <= 0 {
		rate = SampleRate
	}
	dataLen := uint32(len(c.Samples) * bitsPerSample / 8)
	blockAlign := uint16(Channels * bitsPerSample / 8)

	buf := bytes.NewBuffer(make([]byte, 0, 44+int(dataLen)))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(Channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(rate)*uint32(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataLen)
	_ = binary.Write(buf, binary.LittleEndian, c.Samples)

	return buf.Bytes()
}
