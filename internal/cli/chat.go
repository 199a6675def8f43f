package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ridematch/client-go/internal/chat"
	"github.com/ridematch/client-go/internal/models"
	"github.com/ridematch/client-go/internal/realtime"
)

// Chat opens an interactive conversation with the given user. Messages
// arrive live while the realtime channel is up; otherwise a poller
// re-fetches at the configured interval. Plain lines send a message,
// /retry <id> re-sends a failed one, /quit leaves.
func (a *App) Chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errMissingUserID
	}
	counterpartyID := args[0]

	connected := a.messaging.Connect(ctx)
	if !connected {
		fmt.Println("Realtime channel unavailable, falling back to polling.")
	}

	view := a.newConversationView(ctx, counterpartyID)
	view.OnChange(func(messages []models.Message) {
		if len(messages) == 0 {
			return
		}
		printMessage(messages[len(messages)-1])
	})

	a.messaging.OnNewMessage(func(msg realtime.InboundMessage) {
		view.HandleInbound(msg)
	})
	a.messaging.OnTyping(func(ev realtime.TypingEvent) {
		if ev.UserID == counterpartyID && ev.IsTyping {
			fmt.Println("  ...typing")
		}
	})
	a.messaging.OnNotification(func(n realtime.Notification) {
		if n.Message.SenderID != counterpartyID {
			fmt.Printf("(new message from %s in another conversation)\n", n.Message.SenderID)
		}
	})
	defer a.messaging.RemoveListeners()

	chatCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	poller := chat.NewPoller(view, a.messaging.ChannelConnected, a.config.PollInterval, a.log)
	go poller.Run(chatCtx)

	view.Refresh(ctx)
	for _, msg := range view.Snapshot() {
		printMessage(msg)
	}
	a.messaging.JoinConversation(counterpartyID)
	a.messaging.MarkConversationRead(counterpartyID)

	fmt.Println("(type a message, /retry <id> to resend a failed one, /quit to leave)")
	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}
		if id, ok := strings.CutPrefix(line, "/retry "); ok {
			if _, err := view.Retry(ctx, strings.TrimSpace(id)); err != nil {
				fmt.Println("Retry failed:", err.Error())
			}
			continue
		}

		if _, err := view.Send(ctx, line); err != nil {
			fmt.Println("Send failed, message kept for retry:", err.Error())
		}
	}
}

func printMessage(msg models.Message) {
	direction := "<"
	if msg.Sent {
		direction = ">"
	}
	suffix := ""
	switch msg.State {
	case models.DeliveryPending:
		suffix = " (sending...)"
	case models.DeliveryFailed:
		suffix = fmt.Sprintf(" (FAILED, /retry %s)", msg.ID)
	}
	fmt.Printf("%s %s  %s%s\n", direction, msg.Timestamp.Format("15:04"), msg.Text, suffix)
}
