package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/postgres"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/queue"
	"github.com/nextgenmedprep/medprep-server/internal/server/prometheus"
)

// Prometheus runs the mock-interview generation service.
func Prometheus() error {
	cfg := struct {
		Debug bool `conf:"default:false"`
		Web   struct {
			APIHost         string        `conf:"default:0.0.0.0:3001"`
			ShutdownTimeout time.Duration `conf:"default:10s"`
		}
		Postgres PostgresConfig
		Redis    RedisConfig
	}{}
	if done, err := parseConfig(&cfg); done || err != nil {
		return err
	}
	log, err := startup(cfg.Debug, &cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	dbConn, err := openDB(cfg.Postgres)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	rdb := openRedis(cfg.Redis)
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}

	generationQueue := queue.NewRedisGenerationQueue(log, rdb)
	sessions := application.NewSessionsService(log, postgres.NewSessionsRepository(dbConn), generationQueue)
	s := prometheus.NewService(log, sessions, generationQueue)

	go func() {
		log.Infow("listening", "addr", cfg.Web.APIHost)
		if err := s.ListenAndServe(cfg.Web.APIHost); err != nil && err != http.ErrServerClosed {
			log.Fatalf("shutting down the server: %v", err)
		}
	}()
	waitForShutdown(log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}
