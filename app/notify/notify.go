package notify

import (
	"context"
	"sync/atomic"

	"github.com/ishulazy/Venomm/core/logger"
	"github.com/ishulazy/Venomm/core/telegram/sender"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Notifier broadcasts administrative outcomes to a dedicated channel.
// Delivery is best effort: failures are logged, never surfaced to the
// command that triggered the broadcast.
type Notifier struct {
	channelID  int64
	bot        atomic.Pointer[tele.Bot]
	dispatcher atomic.Pointer[sender.Dispatcher]
}

// New creates a Notifier for the given channel.
func New(channelID int64) *Notifier {
	return &Notifier{channelID: channelID}
}

// Bind attaches the running bot and outbound dispatcher.
func (n *Notifier) Bind(bot *tele.Bot, d *sender.Dispatcher) {
	n.bot.Store(bot)
	if d != nil {
		n.dispatcher.Store(d)
	}
}

// Broadcast sends the text to the notify channel.
func (n *Notifier) Broadcast(ctx context.Context, text string) {
	bot := n.bot.Load()
	if bot == nil || n.channelID == 0 || text == "" {
		return
	}

	run := func() error {
		_, err := bot.Send(&tele.Chat{ID: n.channelID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		return err
	}

	if d := n.dispatcher.Load(); d != nil {
		if err := d.Enqueue(ctx, "notify.broadcast", "sendMessage", run); err == nil {
			return
		}
	}
	if err := run(); err != nil {
		logger.Warn(ctx, "tg", "notify.fail",
			slog.Int64("chat_id", n.channelID),
			slog.String("err", err.Error()),
		)
	}
}
