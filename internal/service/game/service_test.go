package game

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/maelik/dungeonmaster/internal/model/game"
	"github.com/maelik/dungeonmaster/internal/provider/assistant"
	"github.com/maelik/dungeonmaster/internal/service/session"
)

// fakeProvider scripts provider behavior and counts calls.
type fakeProvider struct {
	threadID  string
	createErr error

	runStatus openai.RunStatus
	startErr  error
	waitErr   error

	first    string
	hasFirst bool
	last     string
	hasLast  bool

	addCalls   int
	startCalls int
	waitCalls  int
	listCalls  int
}

func (f *fakeProvider) CreateThread(context.Context) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.threadID, nil
}

func (f *fakeProvider) AddUserMessage(context.Context, string, string) error {
	f.addCalls++
	return nil
}

func (f *fakeProvider) StartRun(_ context.Context, threadID string) (openai.Run, error) {
	f.startCalls++
	if f.startErr != nil {
		return openai.Run{}, f.startErr
	}
	return openai.Run{ID: "run_1", ThreadID: threadID, Status: openai.RunStatusQueued}, nil
}

func (f *fakeProvider) WaitForRun(_ context.Context, threadID, runID string) (openai.Run, error) {
	f.waitCalls++
	if f.waitErr != nil {
		return openai.Run{}, f.waitErr
	}
	status := f.runStatus
	if status == "" {
		status = openai.RunStatusCompleted
	}
	return openai.Run{ID: runID, ThreadID: threadID, Status: status}, nil
}

func (f *fakeProvider) FirstAssistantMessage(context.Context, string) (string, bool, error) {
	f.listCalls++
	return f.first, f.hasFirst, nil
}

func (f *fakeProvider) LastAssistantMessage(context.Context, string) (string, bool, error) {
	f.listCalls++
	return f.last, f.hasLast, nil
}

func newTestService(provider *fakeProvider) (*Service, session.Store) {
	store := session.NewMemoryStore()
	svc := NewService(provider, store, session.NewTranscriptLog(), zerolog.Nop())
	return svc, store
}

func TestStartSessionHappyPath(t *testing.T) {
	provider := &fakeProvider{threadID: "thread_abc", first: "Welcome, adventurer.", hasFirst: true}
	svc, store := newTestService(provider)

	sess, initial, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "thread_abc", sess.ID)
	require.Equal(t, "thread_abc", sess.ThreadID)
	require.Equal(t, "Welcome, adventurer.", initial)

	stored, err := store.Get(sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess.ThreadID, stored.ThreadID)
}

func TestStartSessionRunFailed(t *testing.T) {
	provider := &fakeProvider{threadID: "thread_abc", runStatus: openai.RunStatusFailed}
	svc, store := newTestService(provider)

	_, _, err := svc.StartSession(context.Background())

	var runErr *RunFailedError
	require.ErrorAs(t, err, &runErr)
	require.Equal(t, "failed", runErr.Status)

	_, err = store.Get("thread_abc")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestStartSessionEmptyReplyRecovered(t *testing.T) {
	provider := &fakeProvider{threadID: "thread_abc", hasFirst: false}
	svc, _ := newTestService(provider)

	_, initial, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, PlaceholderReply, initial)
}

func TestSubmitTurnHappyPath(t *testing.T) {
	provider := &fakeProvider{threadID: "thread_abc", first: "intro", hasFirst: true}
	svc, _ := newTestService(provider)

	sess, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	provider.last = "You step into the dark."
	provider.hasLast = true

	reply, err := svc.SubmitTurn(context.Background(), sess.ID, "go north")
	require.NoError(t, err)
	require.Equal(t, "You step into the dark.", reply)
	require.Equal(t, 1, provider.addCalls)

	history, err := svc.History(sess.ID)
	require.NoError(t, err)
	require.Len(t, history, 3) // intro + player turn + reply
	require.Equal(t, game.SenderPlayer, history[1].Sender)
	require.Equal(t, "go north", history[1].Content)
}

func TestSubmitTurnUnknownSession(t *testing.T) {
	provider := &fakeProvider{}
	svc, _ := newTestService(provider)

	_, err := svc.SubmitTurn(context.Background(), "missing", "hello")
	require.ErrorIs(t, err, ErrUnknownSession)
	require.Zero(t, provider.addCalls, "provider must not be contacted for unknown sessions")
	require.Zero(t, provider.startCalls)
}

func TestSubmitTurnWhitespaceIsNoOp(t *testing.T) {
	provider := &fakeProvider{threadID: "thread_abc", first: "intro", hasFirst: true}
	svc, _ := newTestService(provider)

	sess, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	reply, err := svc.SubmitTurn(context.Background(), sess.ID, "   \n\t")
	require.NoError(t, err)
	require.Empty(t, reply)
	require.Zero(t, provider.addCalls)
}

func TestSubmitTurnEmptyReplyRecovered(t *testing.T) {
	provider := &fakeProvider{threadID: "thread_abc", first: "intro", hasFirst: true, hasLast: false}
	svc, _ := newTestService(provider)

	sess, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	reply, err := svc.SubmitTurn(context.Background(), sess.ID, "look around")
	require.NoError(t, err)
	require.Equal(t, PlaceholderReply, reply)
}

func TestSubmitTurnPollTimeoutPropagates(t *testing.T) {
	provider := &fakeProvider{threadID: "thread_abc", first: "intro", hasFirst: true}
	svc, _ := newTestService(provider)

	sess, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	provider.waitErr = assistant.ErrPollTimeout

	_, err = svc.SubmitTurn(context.Background(), sess.ID, "wait")
	require.ErrorIs(t, err, assistant.ErrPollTimeout)
}

func TestHistoryUnknownSession(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{})

	_, err := svc.History("missing")
	require.ErrorIs(t, err, ErrUnknownSession)
}
