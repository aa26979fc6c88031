// Package tts defines the interface for text-to-speech synthesis.
//
// Meetgreet uses TTS to turn a greeting phrase into an audio artifact
// that can be delivered into the meeting. The synthesized audio lives
// only for the single dispatch that requested it.
package tts

import (
	"context"
	"time"
)

// Artifact describes one synthesized greeting.
type Artifact struct {
	// ID is the unique identifier of this artifact (UUID).
	ID string `json:"id"`

	// Location is where the audio was written (e.g. "file:///tmp/...mp3").
	Location string `json:"audio_url"`

	// DurationSeconds is an estimate of the audio length.
	DurationSeconds float64 `json:"duration_seconds"`

	// Text is the source text the audio was synthesized from.
	Text string `json:"text_content"`

	// CreatedAt is when the audio was generated.
	CreatedAt time.Time `json:"created_at"`
}

// Synthesizer converts text to audio using a specific voice.
type Synthesizer interface {
	// Synthesize generates an audio artifact from the given text.
	Synthesize(ctx context.Context, text, voice string) (*Artifact, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}
