// Package cli is the interactive RideMatch client: a REPL driving the
// service facades over the shared transport and realtime channel.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ridematch/client-go/internal/chat"
	"github.com/ridematch/client-go/internal/config"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/realtime"
	"github.com/ridematch/client-go/internal/services"
	"github.com/ridematch/client-go/internal/session"
	"github.com/ridematch/client-go/internal/transport"
)

// Mode is the CLI's view of backend reachability. It is cosmetic: every
// facade degrades on its own, the mode only drives the prompt and the
// occasional hint that data may be stale.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// App wires the whole client together and owns the REPL state.
type App struct {
	config    *config.Config
	log       logging.Logger
	sessions  *session.Store
	transport *transport.Client
	channel   *realtime.Channel

	auth      *services.Auth
	rides     *services.Rides
	wallet    *services.Wallet
	messaging *services.Messaging
	friends   *services.Friends
	safety    *services.Safety
	history   *services.History

	reader *bufio.Reader

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the full dependency graph from configuration.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	storage, err := session.OpenSQLite(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening session storage: %w", err)
	}
	sessions := session.NewStore(storage, cfg.TokenValidity)

	client := transport.New(cfg.APIBaseURL, cfg.RequestTimeout, sessions, log)
	channel := realtime.New(cfg.RealtimeURL, sessions, log, cfg.ConnectTimeout, cfg.MaxReconnectAttempts)

	app := &App{
		config:    cfg,
		log:       log,
		sessions:  sessions,
		transport: client,
		channel:   channel,
		auth:      services.NewAuth(client, sessions, log),
		rides:     services.NewRides(client, log),
		wallet:    services.NewWallet(client, log),
		messaging: services.NewMessaging(client, channel, sessions, log),
		friends:   services.NewFriends(client, log),
		safety:    services.NewSafety(client, log),
		history:   services.NewHistory(client, log),
		reader:    bufio.NewReader(os.Stdin),
		mode:      ModeOffline,
	}

	client.SetHooks(transport.Hooks{
		SessionExpired: func() {
			fmt.Println("Session expired, please log in again.")
		},
	})
	return app, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	watcherCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watcherCtx, a.config.OnlineCheckInterval)

	fmt.Println("RideMatch CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))

	a.messaging.Disconnect()
}

func (a *App) status() string {
	name := "guest"
	if sess, err := a.sessions.Load(context.Background()); err == nil && sess.Name != "" {
		name = sess.Name
	}
	return fmt.Sprintf("%s [%s]", name, a.Mode())
}

// Mode returns the current reachability mode.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	ok, err := a.sessions.Authenticated(context.Background())
	return err == nil && ok
}

// StartOnlineStatusWatcher probes the backend at the given interval and
// flips the mode accordingly. It exits when ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(probeCtx)
			cancel()
			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}
		case <-ctx.Done():
			return
		}
	}
}

// newConversationView opens a reconciling view over the conversation with
// the given counterparty, wired to the shared messaging facade.
func (a *App) newConversationView(ctx context.Context, counterpartyID string) *chat.ConversationView {
	selfID := ""
	if sess, err := a.sessions.Load(ctx); err == nil {
		selfID = sess.UserID
	}
	return chat.NewConversationView(a.messaging, counterpartyID, selfID, a.log)
}
