package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"defi-strategy-agent/internal/agent"
	"defi-strategy-agent/internal/catalog"
	"defi-strategy-agent/internal/common/aws"
	"defi-strategy-agent/internal/common/config"
	"defi-strategy-agent/internal/common/database"
	"defi-strategy-agent/internal/common/logger"
	"defi-strategy-agent/internal/common/observability"
	"defi-strategy-agent/internal/protocol"
	"defi-strategy-agent/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Missing protocol credentials land here; nothing works without them.
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting agent", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	offerings, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		log.WithError(err).Warn("offering registry unavailable, catalog serves without it", map[string]interface{}{
			"path": cfg.Registry.Path,
		})
	}

	store, redisClient := buildStore(cfg, log)
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	history, pgClient := buildHistory(cfg, log)
	defer func() {
		if pgClient != nil {
			_ = pgClient.Close()
		}
	}()

	transport, err := protocol.NewClient(&protocol.ClientConfig{
		GatewayURL:       cfg.Protocol.GatewayURL,
		AgentAddress:     cfg.Protocol.AgentAddress,
		WalletPrivateKey: cfg.Protocol.WalletPrivateKey,
		RequestTimeout:   time.Duration(cfg.Protocol.RequestTimeout) * time.Millisecond,
		RetryConfig: &protocol.RetryConfig{
			MaxRetries: cfg.Protocol.MaxRetries,
			BaseDelay:  time.Second,
			MaxDelay:   10 * time.Second,
		},
	})
	if err != nil {
		log.WithError(err).Error("failed to build gateway client", nil)
		os.Exit(1)
	}

	engine := agent.NewEngine(store, transport, history, buildNotifier(cfg, log), obs, log)

	webhook := protocol.NewWebhook(cfg.Protocol.WalletPrivateKey, func(r *http.Request, job protocol.Job, event protocol.PhaseEvent) {
		engine.HandlePhaseEvent(r.Context(), job, event)
	}, log)

	root := chi.NewRouter()
	root.Method(http.MethodPost, "/events", webhook)
	root.Mount("/", catalog.NewServer(offerings, log).Router())

	apiServer := &http.Server{
		Addr:              cfg.Catalog.ListenAddr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}
	opsServer := &http.Server{
		Addr:              cfg.Catalog.MetricsAddr,
		Handler:           opsMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go serve(apiServer, "api", log)
	go serve(opsServer, "ops", log)
	go heartbeat(cfg.Protocol.HeartbeatSeconds, log)

	log.Info("agent ready", map[string]interface{}{
		"listen_addr":  cfg.Catalog.ListenAddr,
		"metrics_addr": cfg.Catalog.MetricsAddr,
		"job_kinds":    agent.KnownKinds(),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", map[string]interface{}{"signal": sig.String()})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("api server shutdown incomplete", nil)
	}
	if err := opsServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("ops server shutdown incomplete", nil)
	}
	log.Info("shutdown complete", nil)
}

// buildStore prefers the redis-backed context store so cached negotiations
// survive a restart, falling back to the in-process store.
func buildStore(cfg *config.Config, log logger.Logger) (agent.JobStore, *database.RedisClient) {
	if !cfg.Database.Redis.Enabled {
		log.Info("using in-memory job context store", nil)
		return agent.NewMemoryStore(), nil
	}

	client, err := database.NewRedis(cfg.Database.Redis)
	if err == nil {
		err = retryWithBackoff(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Ping(ctx)
		}, 5, 2*time.Second)
	}
	if err != nil {
		log.WithError(err).Warn("redis unavailable, falling back to in-memory store", map[string]interface{}{
			"address": cfg.Database.Redis.Address,
		})
		return agent.NewMemoryStore(), nil
	}

	log.Info("using redis job context store", map[string]interface{}{
		"address":     cfg.Database.Redis.Address,
		"ttl_seconds": cfg.Database.Redis.TTLSeconds,
	})
	ttl := time.Duration(cfg.Database.Redis.TTLSeconds) * time.Second
	return agent.NewRedisStore(client.Client, ttl), client
}

func buildHistory(cfg *config.Config, log logger.Logger) (agent.HistoryRecorder, *database.PostgresClient) {
	if !cfg.Database.Postgres.Enabled {
		return agent.NoOpHistory{}, nil
	}

	client, err := database.NewPostgres(cfg.Database.Postgres)
	if err == nil {
		err = retryWithBackoff(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Ping(ctx)
		}, 5, 2*time.Second)
	}
	if err != nil {
		log.WithError(err).Warn("postgres unavailable, delivery history disabled", map[string]interface{}{
			"host": cfg.Database.Postgres.Host,
		})
		return agent.NoOpHistory{}, nil
	}

	log.Info("delivery history enabled", map[string]interface{}{"host": cfg.Database.Postgres.Host})
	return agent.NewPostgresHistory(client.DB), client
}

func buildNotifier(cfg *config.Config, log logger.Logger) *agent.Notifier {
	if !cfg.Notifications.Enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var snsPub, emailPub agent.Publisher
	if cfg.Notifications.SNS.TopicARN != "" {
		client, err := aws.NewSNSClient(ctx, cfg.Notifications.Region, cfg.Notifications.SNS.TopicARN)
		if err != nil {
			log.WithError(err).Warn("sns client unavailable", nil)
		} else {
			snsPub = client
		}
	}
	if cfg.Notifications.Email.FromEmail != "" {
		client, err := aws.NewSESClient(ctx, cfg.Notifications.Region, cfg.Notifications.Email.FromEmail, cfg.Notifications.Email.ToEmail)
		if err != nil {
			log.WithError(err).Warn("ses client unavailable", nil)
		} else {
			emailPub = client
		}
	}
	return agent.NewNotifier(snsPub, emailPub)
}

func opsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func serve(srv *http.Server, name string, log logger.Logger) {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("listener stopped", map[string]interface{}{"listener": name})
	}
}

// heartbeat logs liveness at a fixed interval; it touches no core state.
func heartbeat(intervalSeconds int, log logger.Logger) {
	if intervalSeconds <= 0 {
		intervalSeconds = 30
	}
	start := time.Now()
	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		log.Debug("heartbeat", map[string]interface{}{
			"uptime_seconds": int(time.Since(start).Seconds()),
		})
	}
}

func retryWithBackoff(op func() error, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}
