package attack

import (
	"context"

	"github.com/ishulazy/Venomm/core/logger"
	"log/slog"
)

// Launcher accepts validated run requests.
type Launcher interface {
	Launch(ctx context.Context, userID int64, p Params) error
}

// LogLauncher records accepted requests without performing any network
// activity. It exists so the command flow can be exercised end to end
// while the execution backend stays out of this codebase.
type LogLauncher struct{}

func (LogLauncher) Launch(ctx context.Context, userID int64, p Params) error {
	logger.SVCAttack.Info("run accepted",
		slog.String("event", "launch"),
		slog.String("outcome", "ok"),
		slog.Int64("user_id", userID),
		slog.String("target_host", logger.SanitizeLimit(p.Host, 128)),
		slog.Int("target_port", p.Port),
		slog.Int("duration_s", p.Duration),
	)
	return nil
}
