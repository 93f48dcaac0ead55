package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ishulazy/Venomm/core/logger"
	"log/slog"
)

const (
	defaultSessionTTL = 10 * time.Minute
	defaultKeyPrefix  = "venomm:fsm:"
)

// RedisOptions configures the Redis-backed session manager.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// TTL bounds the lifetime of an abandoned session; 0 -> default.
	TTL time.Duration
	// Prefix namespaces session keys; "" -> default.
	Prefix string
}

// casScript transitions a session key from ARGV[1] to ARGV[2] atomically.
// A missing key counts as the idle sentinel ARGV[3]; transitioning to idle
// deletes the key instead of storing the sentinel.
var casScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then cur = ARGV[3] end
if cur ~= ARGV[1] then return 0 end
if ARGV[2] == ARGV[3] then
  redis.call('DEL', KEYS[1])
else
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[4])
end
return 1
`)

type redisManager struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisManager connects to Redis and returns a Manager whose sessions are
// shared across bot instances and expire automatically when abandoned.
func NewRedisManager(opts RedisOptions) (Manager, error) {
	if opts.TTL <= 0 {
		opts.TTL = defaultSessionTTL
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultKeyPrefix
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session redis ping: %w", err)
	}

	return &redisManager{rdb: rdb, ttl: opts.TTL, prefix: opts.Prefix}, nil
}

func (m *redisManager) redisKey(key Key) string {
	return fmt.Sprintf("%s%d:%d", m.prefix, key.ChatID, key.UserID)
}

// State returns the current state for the key. Backend failures degrade to
// StateIdle so a broken session store never blocks command handling.
func (m *redisManager) State(ctx context.Context, key Key) State {
	val, err := m.rdb.Get(ctx, m.redisKey(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.SESS.Warn("session read failed",
				slog.String("event", "fsm.read"),
				slog.Int64("user_id", key.UserID),
				slog.Int64("chat_id", key.ChatID),
				slog.String("err", err.Error()),
			)
		}
		return StateIdle
	}
	return State(val)
}

// Set stores the state with the configured TTL; StateIdle removes the entry.
func (m *redisManager) Set(ctx context.Context, key Key, st State) error {
	if st == StateIdle {
		return m.rdb.Del(ctx, m.redisKey(key)).Err()
	}
	return m.rdb.Set(ctx, m.redisKey(key), string(st), m.ttl).Err()
}

// Clear removes the session entry, logging backend failures.
func (m *redisManager) Clear(ctx context.Context, key Key) {
	if err := m.rdb.Del(ctx, m.redisKey(key)).Err(); err != nil {
		logger.SESS.Warn("session clear failed",
			slog.String("event", "fsm.clear"),
			slog.Int64("user_id", key.UserID),
			slog.Int64("chat_id", key.ChatID),
			slog.String("err", err.Error()),
		)
	}
}

// CompareAndSwap runs the transition script; script or transport failures
// report false so the caller treats the message as unclaimed.
func (m *redisManager) CompareAndSwap(ctx context.Context, key Key, from, to State) bool {
	res, err := casScript.Run(ctx, m.rdb,
		[]string{m.redisKey(key)},
		string(from), string(to), string(StateIdle), m.ttl.Milliseconds(),
	).Int()
	if err != nil {
		logger.SESS.Warn("session cas failed",
			slog.String("event", "fsm.cas"),
			slog.Int64("user_id", key.UserID),
			slog.Int64("chat_id", key.ChatID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return res == 1
}

// InProgress reports whether the key has an active non-idle state.
func (m *redisManager) InProgress(ctx context.Context, key Key) bool {
	return m.State(ctx, key) != StateIdle
}

// Close releases the Redis connection.
func (m *redisManager) Close() error {
	return m.rdb.Close()
}
