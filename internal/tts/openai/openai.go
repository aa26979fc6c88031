// Package openai implements the TTS Synthesizer using OpenAI's speech API.
//
// Synthesized audio is written as mp3 files to a local scratch directory;
// the returned artifact carries a file:// location, the source text, and a
// duration estimate based on word count.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/meetgreet/internal/config"
	"github.com/nadzzz/meetgreet/internal/tts"
)

const speechURL = "https://api.openai.com/v1/audio/speech"

// wordsPerMinute is the speaking rate used to estimate audio duration.
const wordsPerMinute = 150

// Synthesizer implements tts.Synthesizer against the OpenAI speech API.
type Synthesizer struct {
	apiKey  string
	model   string
	dir     string
	baseURL string
	client  *http.Client
}

// New creates a new OpenAI synthesizer from config. The artifact
// directory is created if it does not exist.
func New(cfg config.OpenAIConfig) (*Synthesizer, error) {
	dir := cfg.AudioDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "meetgreet-audio")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audio dir: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "tts-1"
	}

	return &Synthesizer{
		apiKey:  cfg.APIKey,
		model:   model,
		dir:     dir,
		baseURL: speechURL,
		client:  &http.Client{},
	}, nil
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize sends text to the OpenAI speech API and writes the returned
// mp3 to the artifact directory.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) (*tts.Artifact, error) {
	bodyBytes, err := json.Marshal(speechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating speech request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("speech synthesis failed (status %d): %s", resp.StatusCode, respBody)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, 25<<20))
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+".mp3")
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return nil, fmt.Errorf("writing audio file: %w", err)
	}

	artifact := &tts.Artifact{
		ID:              id,
		Location:        "file://" + path,
		DurationSeconds: estimateDuration(text),
		Text:            text,
		CreatedAt:       time.Now(),
	}

	slog.Debug("speech synthesized",
		"artifact_id", id, "voice", voice, "bytes", len(audio),
		"duration_estimate", artifact.DurationSeconds)
	return artifact, nil
}

// CleanupArtifacts removes mp3 files in the artifact directory older
// than maxAge and returns how many were deleted.
func (s *Synthesizer) CleanupArtifacts(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading audio dir: %w", err)
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp3" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				slog.Warn("failed to remove old artifact", "file", entry.Name(), "error", err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("artifact cleanup complete", "removed", removed)
	}
	return removed, nil
}

// Close is a no-op for the OpenAI synthesizer.
func (s *Synthesizer) Close() error { return nil }

// estimateDuration approximates audio length from word count at a
// typical speaking rate, never under one second.
func estimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	d := float64(words) / wordsPerMinute * 60
	if d < 1 {
		return 1
	}
	return d
}
