// Package main provides the site API server entry point: public portfolio,
// partner, and blog endpoints plus the authenticated admin API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/glebarez/sqlite"
	"github.com/golang/glog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nisaaulia/site-server/pkg/blog"
	"github.com/nisaaulia/site-server/pkg/config"
	"github.com/nisaaulia/site-server/pkg/media"
	"github.com/nisaaulia/site-server/pkg/server"
)

func main() {
	var (
		configPath string
		listenAddr string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (optional; env vars apply either way)")
	flag.StringVar(&listenAddr, "listen", "", "Address to listen on (overrides config)")
	flag.Parse()

	_ = flag.Set("logtostderr", "true")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		glog.Fatalf("Failed to load config: %v", err)
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}

	logger.Info("starting site server",
		"listen", cfg.Listen,
		"env", cfg.Env,
		"dbType", cfg.DBType,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	db, err := setupDatabase(cfg.DBType, cfg.DBDSN)
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}

	blogStore, err := blog.NewStore(cfg.ContentDir)
	if err != nil {
		glog.Fatalf("Failed to open blog content dir: %v", err)
	}
	go func() {
		if err := blogStore.Watch(ctx, logger); err != nil {
			logger.Error("blog watcher stopped", "error", err)
		}
	}()

	opts := []server.Option{server.WithBlogStore(blogStore)}
	if cfg.S3Bucket != "" {
		awsCfg := &aws.Config{Region: aws.String(cfg.S3Region)}
		if cfg.S3Endpoint != "" {
			awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
			awsCfg.S3ForcePathStyle = aws.Bool(true)
		}
		sess, err := awssession.NewSession(awsCfg)
		if err != nil {
			glog.Fatalf("Failed to create AWS session: %v", err)
		}
		opts = append(opts, server.WithMediaStore(
			media.NewStore(sess, cfg.S3Bucket, cfg.Env, mediaBaseURL(cfg))))
		logger.Info("media storage enabled", "bucket", cfg.S3Bucket, "prefix", cfg.Env)
	} else {
		logger.Info("media storage not configured, upload endpoints disabled")
	}

	srv := server.New(cfg, db, logger, opts...)
	if err := srv.Init(); err != nil {
		glog.Fatalf("Failed to migrate database: %v", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("site server ready", "listen", cfg.Listen)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		glog.Fatalf("Server failed: %v", err)
	}
	logger.Info("site server stopped")
}

// setupDatabase opens the configured database. The handle is process-wide:
// opened once here and injected, never re-created per request.
func setupDatabase(dbType, dsn string) (*gorm.DB, error) {
	switch dbType {
	case "sqlite", "":
		if dsn == "" {
			dsn = "site.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported db type %q (expected sqlite, mysql, or postgres)", dbType)
	}
}

// mediaBaseURL picks the public root for uploaded assets: the configured
// override, the custom endpoint, or the standard S3 URL form.
func mediaBaseURL(cfg *config.Config) string {
	if cfg.MediaBaseURL != "" {
		return cfg.MediaBaseURL
	}
	if cfg.S3Endpoint != "" {
		return fmt.Sprintf("%s/%s", cfg.S3Endpoint, cfg.S3Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}
