// Package dispatch implements the greeting pipeline.
//
// On a genuine new-participant signal the dispatcher selects greeting
// text and voice, synthesizes audio, and attempts delivery into the
// meeting's chat via its stored conversation reference. A missing
// reference is tolerated — delivery simply does not happen. Errors are
// returned with meeting/participant context; the caller decides that
// they never reach the webhook response path.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nadzzz/meetgreet/internal/greeting"
	"github.com/nadzzz/meetgreet/internal/meeting"
	"github.com/nadzzz/meetgreet/internal/tts"
)

// Notifier delivers a text payload into a conversation channel.
type Notifier interface {
	Notify(ctx context.Context, ref meeting.ConversationReference, text string) error
}

// RefSource looks up the stored conversation reference for a meeting.
// *meeting.Tracker satisfies it; the dispatcher only ever reads.
type RefSource interface {
	ConversationReference(meetingID string) (meeting.ConversationReference, bool)
}

// Request describes one greeting to produce.
type Request struct {
	ParticipantName string `json:"participant_name"`
	Language        string `json:"language"`
	CustomTemplate  string `json:"custom_message,omitempty"`
}

// Dispatcher produces and delivers greetings.
type Dispatcher struct {
	synthesizer tts.Synthesizer // nil when audio is disabled
	notifier    Notifier
	refs        RefSource
	language    string
}

// New creates a Dispatcher. synthesizer may be nil to disable audio, in
// which case greetings are delivered as text only.
func New(synthesizer tts.Synthesizer, notifier Notifier, refs RefSource, defaultLanguage string) *Dispatcher {
	if defaultLanguage == "" {
		defaultLanguage = greeting.DefaultLanguage
	}
	return &Dispatcher{
		synthesizer: synthesizer,
		notifier:    notifier,
		refs:        refs,
		language:    defaultLanguage,
	}
}

// Greet runs the full pipeline for one new participant. Membership state
// is already updated by the time this is called, so a slow or failing
// synthesis never affects the tracker.
func (d *Dispatcher) Greet(ctx context.Context, meetingID string, p meeting.Participant) error {
	start := time.Now()
	logger := slog.With("meeting_id", meetingID, "participant", p.DisplayName)

	text := greeting.Text(p.DisplayName, d.language, "")
	voice := greeting.Voice(d.language)

	if d.synthesizer != nil {
		artifact, err := d.synthesizer.Synthesize(ctx, text, voice)
		if err != nil {
			return fmt.Errorf("greeting %q in meeting %s: synthesis: %w", p.DisplayName, meetingID, err)
		}
		logger.Info("greeting audio generated",
			"artifact", artifact.Location, "duration", artifact.DurationSeconds)
	}

	ref, ok := d.refs.ConversationReference(meetingID)
	if !ok {
		logger.Warn("no conversation reference for meeting, skipping delivery")
		return nil
	}

	// Streaming synthesized audio into the live meeting needs real-time
	// media registration with Teams; until then the greeting is posted
	// into the meeting chat as text.
	if err := d.notifier.Notify(ctx, ref, "🎵 "+text); err != nil {
		return fmt.Errorf("greeting %q in meeting %s: delivery: %w", p.DisplayName, meetingID, err)
	}

	logger.Info("greeting delivered", "duration", time.Since(start))
	return nil
}

// Preview selects and synthesizes a greeting without delivering it.
// Used by the diagnostic surfaces (/test chat command, test HTTP route).
func (d *Dispatcher) Preview(ctx context.Context, req Request) (*tts.Artifact, error) {
	lang := req.Language
	if lang == "" {
		lang = d.language
	}
	text := greeting.Text(req.ParticipantName, lang, req.CustomTemplate)

	if d.synthesizer == nil {
		return &tts.Artifact{
			Text:      text,
			CreatedAt: time.Now(),
		}, nil
	}

	artifact, err := d.synthesizer.Synthesize(ctx, text, greeting.Voice(lang))
	if err != nil {
		return nil, fmt.Errorf("previewing greeting for %q: %w", req.ParticipantName, err)
	}
	return artifact, nil
}
