package coach

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/hbt/internal/db"
	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
)

type fakeGateway struct {
	reply      remote.Result[string]
	quote      remote.Result[string]
	gotMessage string
	gotHistory []remote.HistoryItem
}

func (f *fakeGateway) Coach(_ context.Context, msg string, history []remote.HistoryItem) remote.Result[string] {
	f.gotMessage = msg
	f.gotHistory = history
	return f.reply
}

func (f *fakeGateway) FetchMotivation(context.Context) remote.Result[string] {
	return f.quote
}

type memStore struct {
	msgs  []models.Message
	saves int
}

func (m *memStore) LoadTranscript() ([]models.Message, bool, error) {
	return m.msgs, m.msgs != nil, nil
}

func (m *memStore) SaveTranscript(msgs []models.Message) error {
	m.saves++
	m.msgs = append([]models.Message(nil), msgs...)
	return nil
}

func TestSend_OKAppendsReply(t *testing.T) {
	gw := &fakeGateway{reply: remote.OK(200, "Start with two minutes a day.")}
	store := &memStore{}
	s := NewSession(gw, store, nil, zerolog.Nop())

	reply, ok := s.Send(context.Background(), "  I want to read more ")
	require.True(t, ok)

	assert.Equal(t, models.RoleAI, reply.Role)
	assert.Equal(t, "Start with two minutes a day.", reply.Text)
	assert.Equal(t, "I want to read more", gw.gotMessage)
	assert.Empty(t, gw.gotHistory)

	tr := s.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, models.RoleUser, tr[0].Role)
	assert.Equal(t, 2, store.saves, "persisted after user and after reply")
	assert.Equal(t, tr, store.msgs)
}

func TestSend_HistoryIsPriorTranscript(t *testing.T) {
	store := &memStore{msgs: []models.Message{
		{Role: models.RoleUser, Text: "hello"},
		{Role: models.RoleAI, Text: "Hi!"},
	}}
	gw := &fakeGateway{reply: remote.OK(200, "ok")}
	s := NewSession(gw, store, nil, zerolog.Nop())
	require.NoError(t, s.Load())

	s.Send(context.Background(), "next")

	assert.Equal(t, []remote.HistoryItem{
		{Role: "user", Content: "hello"},
		{Role: "ai", Content: "Hi!"},
	}, gw.gotHistory)
}

func TestSend_FailureAppendsApology(t *testing.T) {
	for _, res := range []remote.Result[string]{
		remote.Rejected[string](500),
		remote.Unreachable[string](errors.New("connection refused")),
	} {
		s := NewSession(&fakeGateway{reply: res}, &memStore{}, nil, zerolog.Nop())

		reply, ok := s.Send(context.Background(), "hello")
		require.True(t, ok)
		assert.Equal(t, Apology, reply.Text)
		assert.Len(t, s.Transcript(), 2)
	}
}

func TestSend_BlankIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	store := &memStore{}
	s := NewSession(gw, store, nil, zerolog.Nop())

	_, ok := s.Send(context.Background(), "   \n")
	assert.False(t, ok)
	assert.Empty(t, s.Transcript())
	assert.Zero(t, store.saves)
	assert.Empty(t, gw.gotMessage)
}

func TestMotivation(t *testing.T) {
	tests := []struct {
		name string
		res  remote.Result[string]
		want string
	}{
		{"ok", remote.OK(200, "Consistency is the key! 🔑"), "Consistency is the key! 🔑"},
		{"unreachable", remote.Unreachable[string](errors.New("timeout")), FallbackQuote},
		{"rejected", remote.Rejected[string](503), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(&fakeGateway{quote: tt.res}, &memStore{}, nil, zerolog.Nop())
			assert.Equal(t, tt.want, s.Motivation(context.Background()))
		})
	}
}

func TestClear(t *testing.T) {
	store := &memStore{}
	s := NewSession(&fakeGateway{reply: remote.OK(200, "hi")}, store, nil, zerolog.Nop())
	s.Send(context.Background(), "hello")

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Transcript())
	assert.Empty(t, store.msgs)
}

func TestQuickPrompts(t *testing.T) {
	p := QuickPrompts()
	require.Len(t, p, 3)
	assert.Equal(t, "Help me create a morning routine", p[0])

	p[0] = "changed"
	assert.Equal(t, "Help me create a morning routine", QuickPrompts()[0])
}

func TestSession_PersistsThroughDatabase(t *testing.T) {
	database, err := db.New(filepath.Join(t.TempDir(), "hbt.db"))
	require.NoError(t, err)
	defer database.Close()

	s := NewSession(&fakeGateway{reply: remote.OK(200, "Great choice!")}, database, nil, zerolog.Nop())
	require.NoError(t, s.Load())
	s.Send(context.Background(), "I want to exercise more consistently")

	restored := NewSession(&fakeGateway{}, database, nil, zerolog.Nop())
	require.NoError(t, restored.Load())
	tr := restored.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, "Great choice!", tr[1].Text)
}
