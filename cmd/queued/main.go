// Command queued runs a single-node demo of the FIFO queue state
// machine: an in-memory log stand-in driving fifo.State.Apply, an
// in-memory Host executing the resulting effects, and an HTTP
// endpoint exposing fifo.Overview for operators.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/quorumq/quorumq/pkg/concurrency/distlock"
	"github.com/quorumq/quorumq/pkg/config"
	"github.com/quorumq/quorumq/pkg/fifo"
	"github.com/quorumq/quorumq/pkg/fifo/host"
	"github.com/quorumq/quorumq/pkg/fifo/host/adapters/log/raftlog"
	"github.com/quorumq/quorumq/pkg/fifo/host/adapters/memory"
	"github.com/quorumq/quorumq/pkg/logger"
)

const leaderLockTTL = 30 * time.Second

const httpShutdownTimeout = 5 * time.Second

// Config is this binary's environment-driven configuration.
type Config struct {
	QueueName string `env:"QUEUE_NAME" env-default:"demo"`
	HTTPAddr  string `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"INFO"`
}

func main() {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		panic(err)
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: "JSON"})
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A real deployment swaps this for a Redis-backed distlock.Locker so
	// that only one replica in the cluster runs the state machine at a
	// time; the interface is identical either way.
	locker := distlock.NewMemoryLocker()
	defer locker.Close()
	leaderLock := locker.NewLock("queue:"+cfg.QueueName+":leader", leaderLockTTL)
	acquired, err := leaderLock.Acquire(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to acquire leader lock", "error", err)
		return
	}
	if !acquired {
		log.InfoContext(ctx, "another replica already holds leadership", "queue", cfg.QueueName)
		return
	}
	defer leaderLock.Release(context.Background())

	state, initEffects := fifo.Init[string](cfg.QueueName)

	adapter := memory.New[string]()
	executor := host.NewExecutor[string](adapter)
	if err := executor.Run(ctx, initEffects); err != nil {
		log.ErrorContext(ctx, "failed to apply init effects", "error", err)
		return
	}

	raftLog := raftlog.New[string](state, executor)

	e := echo.New()
	e.Use(otelecho.Middleware(cfg.QueueName))
	e.GET("/overview", func(c echo.Context) error {
		return c.JSON(http.StatusOK, fifo.Overview(state))
	})
	e.POST("/enqueue", func(c echo.Context) error {
		var body struct {
			Message any `json:"message"`
		}
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		index, err := raftLog.Propose(c.Request().Context(), fifo.EnqueueCommand{Message: body.Message})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusAccepted, map[string]any{"log_index": index})
	})

	log.InfoContext(ctx, "queued listening", "addr", cfg.HTTPAddr, "queue", cfg.QueueName)
	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "http server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	_ = e.Shutdown(shutdownCtx)
}
