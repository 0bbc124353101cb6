package speech

import (
	"encoding/binary"
	"testing"
)

func TestClipWAV_Header(t *testing.T) {
	clip := Clip{Samples: []int16{0, 1, -1, 32767}, SampleRate: 16000}

	wav := clip.WAV()
	if len(wav) != 44+8 {
		t.Fatalf("expected 52 bytes, got %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("unexpected chunk ids %q", wav[:40])
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != 44 {
		t.Fatalf("expected riff size 44, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Fatalf("expected sample rate 16000, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 32000 {
		t.Fatalf("expected byte rate 32000, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(wav[50:52])); got != 32767 {
		t.Fatalf("expected last sample 32767, got %d", got)
	}
}

func TestClipFloat32(t *testing.T) {
	got := Clip{Samples: []int16{-32768, 0, 16384}}.Float32()
	if got[0] != -1 || got[1] != 0 || got[2] != 0.5 {
		t.Fatalf("unexpected scaling %v", got)
	}
}

func TestWhisperLanguage(t *testing.T) {
	cases := map[string]string{"en-US": "en", "HI": "hi", "": "auto"}
	for in, want := range cases {
		if got := whisperLanguage(in); got != want {
			t.Fatalf("whisperLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
