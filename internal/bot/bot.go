// Package bot glues the pieces together: parsed webhook events drive
// the membership tracker, genuine joins trigger the greeting dispatcher,
// and chat commands are answered through the connector.
//
// Nothing in this package lets a downstream failure escape: by the time
// an event is structurally valid, the webhook surface has committed to
// acknowledging it, so greeting and delivery errors are logged here and
// swallowed.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nadzzz/meetgreet/internal/botframework"
	"github.com/nadzzz/meetgreet/internal/dispatch"
	"github.com/nadzzz/meetgreet/internal/meeting"
)

// Bot handles inbound activities for the greeting bot.
type Bot struct {
	name       string
	tracker    *meeting.Tracker
	dispatcher *dispatch.Dispatcher
	notifier   dispatch.Notifier
}

// New creates the bot around its collaborators.
func New(name string, tracker *meeting.Tracker, dispatcher *dispatch.Dispatcher, notifier dispatch.Notifier) *Bot {
	return &Bot{
		name:       name,
		tracker:    tracker,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// HandleActivity processes one raw webhook body. It returns an error
// only when the envelope is structurally invalid; every downstream
// failure after that point is logged and swallowed so the webhook
// surface can acknowledge the event.
func (b *Bot) HandleActivity(ctx context.Context, body []byte) error {
	ev, err := botframework.ParseActivity(body)
	if err != nil {
		return fmt.Errorf("parsing activity: %w", err)
	}

	// Any activity that carries meeting channel data refreshes the
	// conversation reference for proactive delivery.
	if ev.MeetingID != "" {
		b.tracker.SetConversationReference(ev.MeetingID, ev.Conversation)
		b.tracker.SetSubject(ev.MeetingID, ev.Subject)
	}

	switch ev.Kind {
	case botframework.KindParticipantsJoined:
		b.handleJoins(ctx, ev)
	case botframework.KindParticipantsLeft:
		b.handleLeaves(ev)
	case botframework.KindMessage:
		b.handleMessage(ctx, ev)
	case botframework.KindMembersAdded:
		b.handleMembersAdded(ctx, ev)
	case botframework.KindIgnored:
		slog.Debug("ignoring activity", "meeting_id", ev.MeetingID)
	}
	return nil
}

func (b *Bot) handleJoins(ctx context.Context, ev *botframework.Event) {
	for _, p := range ev.Participants {
		// The bot appears in its own join events; its channel account id
		// is the envelope recipient.
		if p.ID == ev.BotID {
			slog.Debug("skipping own join event", "meeting_id", ev.MeetingID)
			continue
		}

		outcome, err := b.tracker.HandleJoin(ev.MeetingID, p)
		if err != nil {
			slog.Error("failed to record join",
				"meeting_id", ev.MeetingID, "participant", p.DisplayName, "error", err)
			continue
		}
		if !outcome.NewParticipant {
			slog.Debug("duplicate join, no greeting",
				"meeting_id", ev.MeetingID, "participant_id", p.ID)
			continue
		}

		if p.Role == meeting.RoleOrganizer {
			b.tracker.SetOrganizer(ev.MeetingID, p.ID)
		}

		b.logActivity("participant_joined", ev.MeetingID, p.ID,
			slog.String("participant_name", p.DisplayName))

		if err := b.dispatcher.Greet(ctx, ev.MeetingID, p); err != nil {
			slog.Error("greeting failed",
				"meeting_id", ev.MeetingID, "participant", p.DisplayName, "error", err)
		}
	}
}

func (b *Bot) handleLeaves(ev *botframework.Event) {
	for _, id := range ev.ParticipantIDs {
		outcome := b.tracker.HandleLeave(ev.MeetingID, id)
		b.logActivity("participant_left", ev.MeetingID, id)
		if outcome.MeetingClosed {
			slog.Info("meeting cleaned up", "meeting_id", ev.MeetingID)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, ev *botframework.Event) {
	text := ev.Text
	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, ev, strings.ToLower(text))
		return
	}
	b.reply(ctx, ev, "Olá! Recebi sua mensagem: "+text)
}

func (b *Bot) handleCommand(ctx context.Context, ev *botframework.Event, command string) {
	switch {
	case command == "/help":
		b.reply(ctx, ev, strings.Join([]string{
			"**Comandos disponíveis:**",
			"- `/help` - Mostrar esta ajuda",
			"- `/status` - Status do bot e reuniões ativas",
			"- `/test <nome>` - Testar geração de áudio para um nome",
		}, "\n"))

	case command == "/status":
		meetings := b.tracker.ActiveMeetings()
		var sb strings.Builder
		fmt.Fprintf(&sb, "🤖 Bot ativo\n📊 Reuniões ativas: %d", len(meetings))
		for _, m := range meetings {
			fmt.Fprintf(&sb, "\n- Reunião %s: %d participantes", m.ID, len(m.Participants))
		}
		b.reply(ctx, ev, sb.String())

	case strings.HasPrefix(command, "/test"):
		name := strings.TrimSpace(strings.TrimPrefix(command, "/test"))
		if name == "" {
			b.reply(ctx, ev, "Por favor, forneça um nome: `/test João`")
			return
		}
		artifact, err := b.dispatcher.Preview(ctx, dispatch.Request{ParticipantName: name})
		if err != nil {
			slog.Error("test greeting failed", "name", name, "error", err)
			b.reply(ctx, ev, "❌ Erro ao gerar áudio de teste.")
			return
		}
		b.reply(ctx, ev, fmt.Sprintf(
			"✅ Áudio gerado com sucesso!\n📝 Texto: %s\n⏱️ Duração: %.1fs",
			artifact.Text, artifact.DurationSeconds))

	default:
		b.reply(ctx, ev, "Comando desconhecido. Digite `/help` para ver os comandos.")
	}
}

func (b *Bot) handleMembersAdded(ctx context.Context, ev *botframework.Event) {
	for _, m := range ev.Members {
		if m.ID != ev.BotID {
			continue
		}
		// The bot itself was added to the conversation.
		b.reply(ctx, ev, strings.Join([]string{
			"👋 Olá! Sou o " + b.name + ".",
			"",
			"Quando adicionado a uma reunião, eu automaticamente:",
			"• Identifico quando novos participantes entram",
			"• Gero uma saudação personalizada com o nome da pessoa",
			"",
			"Digite `/help` para ver comandos disponíveis.",
		}, "\n"))
		return
	}
}

// reply sends text back into the conversation the event arrived on.
func (b *Bot) reply(ctx context.Context, ev *botframework.Event, text string) {
	if err := b.notifier.Notify(ctx, ev.Conversation, text); err != nil {
		slog.Error("failed to send reply",
			"conversation_id", ev.Conversation.ConversationID, "error", err)
	}
}

// logActivity emits one structured bot-activity record.
func (b *Bot) logActivity(activityType, meetingID, participantID string, attrs ...slog.Attr) {
	args := []any{
		"activity_id", uuid.NewString(),
		"activity_type", activityType,
		"meeting_id", meetingID,
		"participant_id", participantID,
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	slog.Info("bot activity", args...)
}
