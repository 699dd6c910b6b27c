// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tendant/simple-hashkit/internal/artifact"
	"github.com/tendant/simple-hashkit/internal/bus"
	"github.com/tendant/simple-hashkit/internal/dispatch"
	"github.com/tendant/simple-hashkit/internal/gate"
	"github.com/tendant/simple-hashkit/internal/httpapi"
	"github.com/tendant/simple-hashkit/internal/runner"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := LoadConfig()
	if err != nil {
		fatal(logger, "load config", err)
	}
	logger.Info("server starting", "http_addr", cfg.HTTPAddr, "hashkit_bin", cfg.HashkitBin, "timeout", cfg.HashkitTimeout, "wordlist_dir", cfg.WordlistDir, "nats_enabled", cfg.NATSURL != "")

	if err := os.MkdirAll(cfg.WordlistDir, 0o755); err != nil {
		fatal(logger, "ensure wordlist directory", err, "wordlist_dir", cfg.WordlistDir)
	}

	toolRunner := runner.NewExecRunner(cfg.HashkitBin, cfg.HashkitTimeout, logger)
	toolRunner.Env = []string{cfg.EncodingEnv}
	if err := toolRunner.Available(); err != nil {
		logger.Warn("hashkit executable not resolvable, requests will report it missing", "err", err)
	}

	opts := dispatch.Options{
		Gate:      gate.New(),
		Runner:    toolRunner,
		Artifacts: artifact.NewManager(cfg.WordlistDir),
		Logger:    logger,
	}

	var nc *bus.Client
	if cfg.NATSURL != "" {
		nc, err = bus.Connect(cfg.NATSURL)
		if err != nil {
			fatal(logger, "connect to NATS", err, "nats_url", cfg.NATSURL)
		}
		defer nc.Close()
		logger.Info("connected to NATS", "nats_url", cfg.NATSURL)
		opts.Publisher = nc
		opts.ResultSubject = cfg.ResultSubject
	}

	dispatcher, err := dispatch.New(opts)
	if err != nil {
		fatal(logger, "build dispatcher", err)
	}

	if nc != nil {
		if _, err := nc.ServeJSON(cfg.ProcessSubject, cfg.WorkerQueue, dispatcher.HandleProcessMessage); err != nil {
			fatal(logger, "subscribe process", err, "subject", cfg.ProcessSubject, "queue", cfg.WorkerQueue)
		}
		if _, err := nc.ServeJSON(cfg.WordlistSubject, cfg.WorkerQueue, dispatcher.HandleWordlistMessage); err != nil {
			fatal(logger, "subscribe wordlist", err, "subject", cfg.WordlistSubject, "queue", cfg.WorkerQueue)
		}
		logger.Info("listening for jobs", "process_subject", cfg.ProcessSubject, "wordlist_subject", cfg.WordlistSubject, "queue", cfg.WorkerQueue)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewHandler(dispatcher, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		fatal(logger, "listen http", err, "addr", cfg.HTTPAddr)
	}
	logger.Info("listening for http", "addr", ln.Addr().String())
	if err := serve(ctx, srv, ln, cfg.ShutdownTimeout, logger); err != nil {
		fatal(logger, "serve http", err, "addr", cfg.HTTPAddr)
	}
	logger.Info("server stopped")
}

// serve runs srv until ctx ends, then returns only once in-flight requests
// have drained or shutdownTimeout has passed.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("shutting down, waiting for in-flight requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}

func fatal(logger *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, "err", err)
	logger.Error(msg, attrs...)
	os.Exit(1)
}
