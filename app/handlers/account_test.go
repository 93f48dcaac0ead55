package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/ishulazy/Venomm/app/services/subscriptions"
	"github.com/ishulazy/Venomm/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger.L = discard
	logger.TG = discard
	logger.SVCSubs = discard
	logger.SVCAttack = discard
	os.Exit(m.Run())
}

// recordingContext implements the slice of tele.Context the handlers use
// and records outbound message texts.
type recordingContext struct {
	tele.Context
	update tele.Update
	sender *tele.User
	chat   *tele.Chat
	values map[string]interface{}
	sent   []string
}

func newRecordingContext(text string, user *tele.User) *recordingContext {
	return &recordingContext{
		update: tele.Update{ID: 1, Message: &tele.Message{Text: text}},
		sender: user,
		chat:   &tele.Chat{ID: 100},
		values: make(map[string]interface{}),
	}
}

func (r *recordingContext) Update() tele.Update { return r.update }
func (r *recordingContext) Sender() *tele.User  { return r.sender }
func (r *recordingContext) Chat() *tele.Chat    { return r.chat }
func (r *recordingContext) Text() string        { return r.update.Message.Text }

func (r *recordingContext) Get(key string) interface{} { return r.values[key] }

func (r *recordingContext) Set(key string, val interface{}) { r.values[key] = val }

func (r *recordingContext) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		r.sent = append(r.sent, s)
	}
	return nil
}

// accountStore serves canned lookup results.
type accountStore struct {
	sub *subscriptions.Subscription
	err error
}

func (s *accountStore) Find(ctx context.Context, userID int64) (*subscriptions.Subscription, error) {
	return s.sub, s.err
}

func (s *accountStore) CountByPlan(ctx context.Context, plan subscriptions.Plan) (int, error) {
	return 0, nil
}

func (s *accountStore) Upsert(ctx context.Context, sub subscriptions.Subscription) error {
	return nil
}

func (s *accountStore) ResetAccess(ctx context.Context, userID int64) error { return nil }

func menuHandlers(store subscriptions.Store) *Handlers {
	return &Handlers{Subs: subscriptions.NewService(store, subscriptions.Limits{})}
}

func TestAccountInfoStoreFailure(t *testing.T) {
	// A storage fault is not "no account": the user gets the generic
	// retry message instead of being told their record is missing.
	h := menuHandlers(&accountStore{err: errors.New("connection refused")})
	c := newRecordingContext(LabelAccount, &tele.User{ID: 7, Username: "alice"})

	require.NoError(t, h.MenuText(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, "*An error occurred. Please try again later.*", c.sent[0])
}

func TestAccountInfoMissingRecord(t *testing.T) {
	h := menuHandlers(&accountStore{})
	c := newRecordingContext(LabelAccount, &tele.User{ID: 7, Username: "alice"})

	require.NoError(t, h.MenuText(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, "*No account information found. Please contact the administrator.*", c.sent[0])
}

func TestAccountInfoShowsRecord(t *testing.T) {
	h := menuHandlers(&accountStore{sub: &subscriptions.Subscription{
		UserID:     7,
		Plan:       subscriptions.PlanInstant,
		ValidUntil: "2026-09-30",
	}})
	c := newRecordingContext(LabelAccount, &tele.User{ID: 7, Username: "alice"})

	require.NoError(t, h.MenuText(c))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "USERNAME: alice")
	assert.Contains(t, c.sent[0], "Plan: 1")
	assert.Contains(t, c.sent[0], "Valid Until: 2026-09-30")
}
