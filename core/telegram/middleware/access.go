package middleware

import (
	"context"
	"time"

	"github.com/ishulazy/Venomm/core/logger"
	tghelpers "github.com/ishulazy/Venomm/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
// Check resolves whether the user may run privileged commands; any error
// from it is treated as "not an admin" rather than a fatal condition.
type AdminOptions struct {
	Check        func(ctx context.Context, userID int64) (bool, error)
	OnReject     tele.HandlerFunc
	CheckTimeout time.Duration
}

func (o AdminOptions) isAdmin(c tele.Context) bool {
	user := c.Sender()
	if user == nil || o.Check == nil {
		return false
	}

	timeout := o.CheckTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(tghelpers.BuildContext(c), timeout)
	defer cancel()

	ok, err := o.Check(ctx, user.ID)
	if err != nil {
		logger.Warn(ctx, "tg", "admin.check.fail",
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return ok
}

// AdminOnlyMiddleware ensures that only privileged users reach downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !opts.isAdmin(c) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
