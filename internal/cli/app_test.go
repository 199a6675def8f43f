package cli

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/session"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

func (l *recordingLogger) Debug(_ context.Context, msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(_ context.Context, msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) With(_ ...any) logging.Logger                  { return l }

func TestIsLoggedIn(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage(), 24*time.Hour)
	app := &App{sessions: store}

	require.False(t, app.isLoggedIn())

	err := store.Save(context.Background(), session.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       "user_1",
		Name:         "Alice",
		Role:         session.RoleUser,
		IssuedAt:     time.Now(),
	})
	require.NoError(t, err)
	require.True(t, app.isLoggedIn())

	require.NoError(t, store.Clear(context.Background()))
	require.False(t, app.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	log := &recordingLogger{}
	app := &App{log: log, mode: ModeOffline}

	app.setMode(ModeOnline)
	require.Equal(t, ModeOnline, app.Mode())
	require.Equal(t, 1, log.count())

	app.setMode(ModeOnline)
	require.Equal(t, 1, log.count())

	app.setMode(ModeOffline)
	require.Equal(t, ModeOffline, app.Mode())
	require.Equal(t, 2, log.count())
}

func TestStatus(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage(), 24*time.Hour)
	app := &App{sessions: store, log: &recordingLogger{}, mode: ModeOffline}

	require.Equal(t, "guest [offline]", app.status())

	err := store.Save(context.Background(), session.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       "user_1",
		Name:         "Alice",
		Role:         session.RoleUser,
		IssuedAt:     time.Now(),
	})
	require.NoError(t, err)
	app.setMode(ModeOnline)

	got := app.status()
	require.True(t, strings.HasPrefix(got, "Alice"))
	require.Contains(t, got, "[online]")
}
