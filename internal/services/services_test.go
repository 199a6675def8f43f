package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/session"
)

// fakeAPI scripts responses per "METHOD path" key and records every call.
type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]any
	errs      map[string]error
	calls     []apiCall
}

type apiCall struct {
	Method string
	Path   string
	Body   any
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		responses: map[string]any{},
		errs:      map[string]error{},
	}
}

func (f *fakeAPI) respond(method, path string, value any) {
	f.responses[method+" "+path] = value
}

func (f *fakeAPI) fail(method, path string, err error) {
	f.errs[method+" "+path] = err
}

func (f *fakeAPI) do(method, path string, body any, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Path: path, Body: body})
	f.mu.Unlock()

	key := method + " " + path
	if err, ok := f.errs[key]; ok {
		return err
	}
	resp, ok := f.responses[key]
	if !ok {
		return fmt.Errorf("unexpected call: %s", key)
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeAPI) Get(ctx context.Context, path string, out any) error {
	return f.do("GET", path, nil, out)
}

func (f *fakeAPI) Post(ctx context.Context, path string, body any, out any) error {
	return f.do("POST", path, body, out)
}

func (f *fakeAPI) Put(ctx context.Context, path string, body any, out any) error {
	return f.do("PUT", path, body, out)
}

func (f *fakeAPI) Delete(ctx context.Context, path string, out any) error {
	return f.do("DELETE", path, nil, out)
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) lastCall(t *testing.T) apiCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no API calls recorded")
	}
	return f.calls[len(f.calls)-1]
}

// lastBody re-marshals the recorded request body into a generic map for
// field assertions.
func (f *fakeAPI) lastBody(t *testing.T) map[string]any {
	t.Helper()
	data, err := json.Marshal(f.lastCall(t).Body)
	if err != nil {
		t.Fatalf("marshal recorded body: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal recorded body: %v", err)
	}
	return m
}

// spyLogger records log entries so tests can assert on swallowed errors
// and on silence.
type spyLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	Level string
	Msg   string
}

func (l *spyLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{Level: level, Msg: msg})
}

func (l *spyLogger) Debug(ctx context.Context, msg string, args ...any) { l.record("debug", msg) }
func (l *spyLogger) Info(ctx context.Context, msg string, args ...any)  { l.record("info", msg) }
func (l *spyLogger) Warn(ctx context.Context, msg string, args ...any)  { l.record("warn", msg) }
func (l *spyLogger) Error(ctx context.Context, msg string, args ...any) { l.record("error", msg) }
func (l *spyLogger) With(args ...any) logging.Logger                    { return l }

func (l *spyLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func newSessionStore() *session.Store {
	return session.NewStore(session.NewMemoryStorage(), 24*time.Hour)
}

func seedSession(t *testing.T, store *session.Store, userID string) {
	t.Helper()
	err := store.Save(context.Background(), session.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		UserID:       userID,
		Name:         "Test User",
		Role:         session.RoleUser,
		IssuedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}
