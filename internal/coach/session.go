// Package coach holds the chat transcript with the coaching service.
package coach

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgienger/hbt/internal/db"
	"github.com/tgienger/hbt/internal/logging"
	"github.com/tgienger/hbt/internal/metrics"
	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
)

const (
	// Apology is shown in place of a reply when the service does not answer.
	Apology = "Sorry, I'm having trouble connecting. Please try again."
	// FallbackQuote is used when the motivation endpoint is unreachable.
	FallbackQuote = "Every small step counts! 💪"
)

var quickPrompts = []string{
	"Help me create a morning routine",
	"I want to exercise more consistently",
	"Help me stay focused at work",
}

// QuickPrompts returns the starter prompts offered on an empty transcript.
func QuickPrompts() []string {
	out := make([]string, len(quickPrompts))
	copy(out, quickPrompts)
	return out
}

// Gateway is the part of the remote client the session talks to.
type Gateway interface {
	Coach(ctx context.Context, message string, history []remote.HistoryItem) remote.Result[string]
	FetchMotivation(ctx context.Context) remote.Result[string]
}

// Store persists the transcript.
type Store interface {
	LoadTranscript() ([]models.Message, bool, error)
	SaveTranscript(msgs []models.Message) error
}

// Session owns the transcript for the process lifetime.
type Session struct {
	gateway Gateway
	store   Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time

	mu         sync.Mutex
	transcript []models.Message
}

// NewSession creates a Session with an empty transcript. Call Load to restore it.
func NewSession(gateway Gateway, store Store, m *metrics.Metrics, logger zerolog.Logger) *Session {
	return &Session{
		gateway: gateway,
		store:   store,
		metrics: m,
		logger:  logging.Component(logger, "coach"),
		now:     time.Now,
	}
}

// Load restores the persisted transcript.
func (s *Session) Load() error {
	msgs, _, err := s.store.LoadTranscript()
	if err != nil {
		return fmt.Errorf("loading transcript: %w", err)
	}
	s.mu.Lock()
	s.transcript = msgs
	s.mu.Unlock()
	return nil
}

// Transcript returns a copy of the messages so far.
func (s *Session) Transcript() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Send appends text as a user message, asks the coach and appends the reply
// or the apology. It returns the appended AI message; ok is false for blank text.
func (s *Session) Send(ctx context.Context, text string) (reply models.Message, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, false
	}

	s.mu.Lock()
	history := toHistory(s.transcript)
	s.appendLocked(models.RoleUser, text)
	s.mu.Unlock()

	res := s.gateway.Coach(context.WithoutCancel(ctx), text, history)

	answer := res.Payload
	if !res.IsOK() {
		s.logger.Warn().Str("outcome", res.String()).Msg("coach unavailable")
		answer = Apology
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(models.RoleAI, answer), true
}

// Clear empties the transcript.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	return s.persistLocked()
}

// Motivation returns a quote: the service's on OK, FallbackQuote when
// unreachable and empty when rejected.
func (s *Session) Motivation(ctx context.Context) string {
	res := s.gateway.FetchMotivation(context.WithoutCancel(ctx))
	switch res.Kind {
	case remote.KindOK:
		return res.Payload
	case remote.KindUnreachable:
		return FallbackQuote
	default:
		return ""
	}
}

func (s *Session) appendLocked(role models.Role, text string) models.Message {
	msg := models.Message{Role: role, Text: text, Timestamp: models.NewTimestamp(s.now())}
	s.transcript = append(s.transcript, msg)
	if err := s.persistLocked(); err != nil {
		s.logger.Error().Err(err).Msg("writing transcript")
	}
	return msg
}

func (s *Session) persistLocked() error {
	err := s.store.SaveTranscript(s.transcript)
	s.metrics.RecordSnapshotWrite(db.TranscriptKey, err)
	return err
}

func toHistory(msgs []models.Message) []remote.HistoryItem {
	out := make([]remote.HistoryItem, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, remote.HistoryItem{Role: string(m.Role), Content: m.Text})
	}
	return out
}
