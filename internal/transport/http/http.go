// Package http implements the HTTP surface for meetgreet.
//
// It exposes the Bot Framework webhook endpoint plus a read-only
// status/diagnostic API over the meeting tracker. The webhook always
// acknowledges a structurally valid event with 200, regardless of what
// happened downstream — upstream bot-protocol retries must stay
// isolated from greeting failures.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/meetgreet/docs"
	"github.com/nadzzz/meetgreet/internal/bot"
	"github.com/nadzzz/meetgreet/internal/dispatch"
	"github.com/nadzzz/meetgreet/internal/meeting"
)

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port       int
	botName    string
	bot        *bot.Bot
	tracker    *meeting.Tracker
	dispatcher *dispatch.Dispatcher
	server     *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int, botName string, b *bot.Bot, tracker *meeting.Tracker, dispatcher *dispatch.Dispatcher) *Transport {
	return &Transport{
		port:       port,
		botName:    botName,
		bot:        b,
		tracker:    tracker,
		dispatcher: dispatcher,
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server.
func (t *Transport) Listen(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/bot/messages", t.handleMessages)
	mux.HandleFunc("GET /api/bot/status", t.handleStatus)
	mux.HandleFunc("GET /api/bot/meetings", t.handleMeetings)
	mux.HandleFunc("GET /api/bot/meetings/{id}", t.handleMeeting)
	mux.HandleFunc("POST /api/bot/test/greeting", t.handleTestGreeting)

	// Swagger UI — serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleMessages processes a POST /api/bot/messages webhook call.
//
// @Summary     Bot Framework webhook
// @Description Receives a Bot Framework activity envelope. Once the envelope is structurally
// @Description valid the event is acknowledged with 200 even when greeting synthesis or
// @Description delivery fails downstream.
// @Tags        bot
// @Accept      json
// @Produce     json
// @Success     200  {object}  map[string]string  "Acknowledgment"
// @Failure     400  {string}  string  "Malformed activity envelope"
// @Router      /api/bot/messages [post]
func (t *Transport) handleMessages(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB limit
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := t.bot.HandleActivity(r.Context(), body); err != nil {
		slog.Warn("dropping malformed activity", "error", err)
		http.Error(w, "invalid activity: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusResponse is the GET /api/bot/status payload.
type statusResponse struct {
	Status              string           `json:"status"`
	BotName             string           `json:"bot_name"`
	ActiveMeetingsCount int              `json:"active_meetings_count"`
	ActiveMeetings      []meetingSummary `json:"active_meetings"`
}

type meetingSummary struct {
	MeetingID         string    `json:"meeting_id"`
	ParticipantsCount int       `json:"participants_count"`
	StartedAt         time.Time `json:"started_at"`
}

// handleStatus reports the bot status and a meeting summary.
//
// @Summary     Bot status
// @Description Returns the bot name and a per-meeting participant count summary.
// @Tags        status
// @Produce     json
// @Success     200  {object}  statusResponse
// @Router      /api/bot/status [get]
func (t *Transport) handleStatus(w http.ResponseWriter, r *http.Request) {
	meetings := t.tracker.ActiveMeetings()
	writeJSON(w, http.StatusOK, statusResponse{
		Status:              "active",
		BotName:             t.botName,
		ActiveMeetingsCount: len(meetings),
		ActiveMeetings: lo.Map(meetings, func(m meeting.Meeting, _ int) meetingSummary {
			return meetingSummary{
				MeetingID:         m.ID,
				ParticipantsCount: len(m.Participants),
				StartedAt:         m.StartedAt,
			}
		}),
	})
}

// handleMeetings lists all active meetings.
//
// @Summary     List active meetings
// @Tags        status
// @Produce     json
// @Success     200  {array}  meeting.Meeting
// @Router      /api/bot/meetings [get]
func (t *Transport) handleMeetings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, t.tracker.ActiveMeetings())
}

// handleMeeting returns one meeting by id.
//
// @Summary     Get one meeting
// @Tags        status
// @Produce     json
// @Param       id   path      string  true  "Meeting id"
// @Success     200  {object}  meeting.Meeting
// @Failure     404  {string}  string  "Meeting not found"
// @Router      /api/bot/meetings/{id} [get]
func (t *Transport) handleMeeting(w http.ResponseWriter, r *http.Request) {
	m, err := t.tracker.Meeting(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, meeting.ErrMeetingNotFound) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleTestGreeting synthesizes a greeting without delivering it.
//
// @Summary     Test greeting synthesis
// @Description Selects greeting text and voice for the given name/language and runs
// @Description synthesis, returning the artifact. Nothing is delivered to any meeting.
// @Tags        bot
// @Accept      json
// @Produce     json
// @Param       request  body      dispatch.Request  true  "Greeting request"
// @Success     200  {object}  tts.Artifact
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     500  {string}  string  "Synthesis failed"
// @Router      /api/bot/test/greeting [post]
func (t *Transport) handleTestGreeting(w http.ResponseWriter, r *http.Request) {
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ParticipantName == "" {
		http.Error(w, "participant_name is required", http.StatusBadRequest)
		return
	}

	artifact, err := t.dispatcher.Preview(r.Context(), req)
	if err != nil {
		slog.Error("test greeting failed", "participant", req.ParticipantName, "error", err)
		http.Error(w, "greeting synthesis failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
