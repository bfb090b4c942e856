package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/config"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const redisRemediationHint = "check that Redis is running and REDIS_HOST/REDIS_PORT/REDIS_PASSWORD are correct"

// NewRedisClient builds the shared broker client. go-redis dials lazily, so
// construction never blocks on an unreachable server.
func NewRedisClient(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: cfg.DialTimeout,
	})

	client.AddHook(&redisErrorHook{
		connErrors: NewConnectionErrorLogger(logger, cfg.Addr(), cfg.ErrorLogInterval),
		logger:     logger,
	})

	return client
}

// ConnectionErrorLogger collapses bursts of connection errors into at most one
// log line per interval, reporting how many errors the line stands for.
type ConnectionErrorLogger struct {
	mu         sync.Mutex
	limiter    *rate.Limiter
	suppressed int
	addr       string
	logger     *slog.Logger
	now        func() time.Time
}

func NewConnectionErrorLogger(logger *slog.Logger, addr string, interval time.Duration) *ConnectionErrorLogger {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ConnectionErrorLogger{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		addr:    addr,
		logger:  logger,
		now:     time.Now,
	}
}

// Record counts err and logs the aggregate if the window allows it. It
// reports whether a line was written.
func (l *ConnectionErrorLogger) Record(err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.suppressed++
	if !l.limiter.AllowN(l.now(), 1) {
		return false
	}

	count := l.suppressed
	l.suppressed = 0

	l.logger.Warn("redis connection error",
		slog.String("event_type", "redis_connection_error"),
		slog.String("addr", l.addr),
		slog.Int("errors_in_window", count),
		slog.String("error", err.Error()),
		slog.String("hint", redisRemediationHint),
	)
	return true
}

// Pending returns the number of errors counted since the last log line.
func (l *ConnectionErrorLogger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.suppressed
}

type redisErrorHook struct {
	connErrors *ConnectionErrorLogger
	logger     *slog.Logger
}

func (h *redisErrorHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.observe(err, "dial")
		}
		return conn, err
	}
}

func (h *redisErrorHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil {
			h.observe(err, cmd.Name())
		}
		return err
	}
}

func (h *redisErrorHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil {
			h.observe(err, "pipeline")
		}
		return err
	}
}

func (h *redisErrorHook) observe(err error, command string) {
	switch {
	case errors.Is(err, redis.Nil), errors.Is(err, context.Canceled), errors.Is(err, redis.TxFailedErr):
		return
	case IsConnectionError(err):
		h.connErrors.Record(err)
	default:
		h.logger.Error("redis command failed",
			slog.String("event_type", "redis_error"),
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
	}
}

// IsConnectionError reports whether err means the server could not be reached.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "connection reset", "i/o timeout", "no such host", "broken pipe", "pool timeout"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
