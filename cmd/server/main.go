// Package main initializes and starts the portfolio API server, setting up
// configuration, logging, the database, image storage, mail, services,
// handlers and the HTTP listener.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/portfolio/internal/config"
	"github.com/atinyakov/portfolio/internal/db"
	"github.com/atinyakov/portfolio/internal/logger"
	"github.com/atinyakov/portfolio/internal/mail"
	"github.com/atinyakov/portfolio/internal/repository"
	"github.com/atinyakov/portfolio/internal/server/handler/http"
	"github.com/atinyakov/portfolio/internal/service"
	"github.com/atinyakov/portfolio/internal/storage"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	shutdownTimeout = 10 * time.Second
	cleanInterval   = time.Hour
	imageRetention  = 24 * time.Hour
)

func main() {
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	images, err := newImageStore(ctx, options)
	if err != nil {
		zapLogger.Fatal("cannot init image store", zap.Error(err))
	}

	db.StartOrphanImageCleaner(ctx, postgresDB, images, cleanInterval, imageRetention, zapLogger)

	projectRepo := repository.NewPostgresProjectRepository(postgresDB)

	projectService := service.NewProjectService(projectRepo, images)
	authService := service.NewAuthService(service.StaticCredentials{
		Username: options.Username,
		Password: options.Password,
		Token:    options.Token,
	})
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     options.SMTP.Host,
		Port:     options.SMTP.Port,
		User:     options.SMTP.User,
		Password: options.SMTP.Password,
	}, zapLogger)
	zapLogger.Info("mail relay configured", zap.String("addr", options.SMTP.Addr()))
	contactService := service.NewContactService(mailer, options.SMTP.From, options.SMTP.To)

	router := http.NewRouter(
		&http.ProjectHandler{Service: projectService, Log: zapLogger},
		&http.AuthHandler{AuthService: authService},
		&http.ContactHandler{Service: contactService, Log: zapLogger},
		storage.Handler(images),
		http.RouterOptions{
			CORSOrigins:     options.CORSOrigins,
			PublicScheme:    options.PublicScheme,
			MaxUploadMemory: options.UploadMemory,
		},
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		tls := options.TLSCert != ""
		zapLogger.Info("starting server", zap.String("addr", options.Port), zap.Bool("tls", tls))
		if tls {
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
			return
		}
		zapLogger.Info("shutdown complete")
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Error("server failed", zap.Error(err))
		}
	}
}

// newImageStore picks the object store when one is configured and the
// local image directory otherwise.
func newImageStore(ctx context.Context, o *config.Options) (storage.ImageStore, error) {
	if o.S3.Enabled() {
		return storage.NewMinioStore(ctx, o.S3.Endpoint, o.S3.AccessKey, o.S3.SecretKey, o.S3.Bucket)
	}
	return storage.NewDiskStore(o.ImageDir)
}
