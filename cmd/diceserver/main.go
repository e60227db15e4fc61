// Command diceserver serves the dice reader over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dice-reader/internal/config"
	"dice-reader/internal/dice"
	"dice-reader/internal/server"
	"dice-reader/internal/storage"
	"dice-reader/internal/version"
	"dice-reader/internal/vision"
	"dice-reader/pkg/log"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewLogger(log.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.WithFields(log.Fields{
		"version": version.String(),
		"env":     cfg.Env,
	}).Info("Starting dice reader")

	params := cfg.DiceParams()
	src, err := templateSource(cfg)
	if err != nil {
		logger.Fatalf("Failed to open template source: %v", err)
	}
	templates, err := dice.LoadTemplates(src, params.TemplateCrop)
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}
	logger.WithFields(log.Fields{
		"source":    cfg.TemplateSource,
		"prefix":    cfg.TemplatePrefix,
		"templates": templates.Len(),
	}).Info("Loaded templates")

	pipeline := dice.NewPipeline(vision.NewDetector(cfg.VisionParams()), templates, params, logger)

	options := []server.Option{
		server.WithLogger(logger),
		server.WithFiber(server.NewFiber(logger, cfg.BodyLimit)),
		server.WithExtractor(pipeline),
		server.WithTemplates(templates),
		server.WithTimeout(cfg.RequestTimeout),
	}
	if cfg.RedisAddress != "" {
		cache := storage.NewRedisCache(storage.RedisOptions{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, logger)
		defer cache.Close()
		options = append(options, server.WithCache(cache))
	}

	srv, err := server.New(options...)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(":" + cfg.Port)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorf("Server stopped: %v", err)
		}
	case s := <-sig:
		logger.Infof("Received %s, shutting down", s)
		shutdown(logger, srv)
	}
}

func shutdown(logger *logrus.Logger, srv *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Shutdown failed: %v", err)
	}
}

func templateSource(cfg config.Config) (dice.TemplateSource, error) {
	switch cfg.TemplateSource {
	case config.SourceS3:
		return storage.NewS3Source(storage.S3Config{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Bucket:          cfg.AWSBucketName,
			Prefix:          cfg.TemplatePrefix,
		})
	default:
		return dice.FSSource{FS: os.DirFS(cfg.TemplatePrefix)}, nil
	}
}
