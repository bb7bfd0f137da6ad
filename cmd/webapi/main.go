/*
Webapi is the executable for the sightings web server.
It connects to the SQLite database, prepares the media store and serves every route through a single web server.

Usage:

	webapi [flags]

Flags and configurations are handled automatically by the code in `load-configuration.go`.

Return values (exit codes):

	0
		The program ended successfully (no errors, stopped by signal)

	> 0
		The program ended due to an error

Note that this program will update the schema of the database to the latest version available (embedded in the
executable during the build). The au_postcodes gazetteer table must be loaded separately.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	"github.com/gorilla/handlers"
	"github.com/silktrader/gliderwatch/pkg/gazetteer"
	"github.com/silktrader/gliderwatch/pkg/pages"
	"github.com/silktrader/gliderwatch/pkg/rest"
	"github.com/silktrader/gliderwatch/pkg/session"
	"github.com/silktrader/gliderwatch/pkg/sightings"
	"github.com/silktrader/gliderwatch/pkg/storage/media"
	"github.com/silktrader/gliderwatch/pkg/storage/sqlite"
	"github.com/silktrader/gliderwatch/pkg/users"
	"github.com/sirupsen/logrus"
)

const (
	mediaDirectory = "directory"
	mediaS3        = "s3"
)

// main is the program entry point. The only purpose of this function is to call run() and set the exit code if there is
// any error
func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

// run executes the program. The body of this function should perform the following steps:
// * reads the configuration
// * creates and configure the logger
// * connects to any external resources (like databases, object storage, etc.)
// * registers the routes of every package
// * starts the web server
// * waits for any termination event: SIGTERM signal (UNIX), non-recoverable server error, etc.
// * closes the web server
func run() error {
	// Load Configuration and defaults
	cfg, err := loadConfiguration(os.Args[1:])
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil
		}
		return err
	}

	// Init logging
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Infof("application initializing")

	// initialise database before registering handlers for an immediate exit in case of issues
	storage, err := sqlite.New(logger, cfg.DB.Filename)
	if err != nil {
		logger.WithError(err).Error("error initialising storage")
		return fmt.Errorf("error while initialising storage: %w", err)
	}
	defer storage.Close()

	mediaStore, err := newMediaStore(logger, cfg)
	if err != nil {
		logger.WithError(err).Error("error initialising media storage")
		return fmt.Errorf("error while initialising media storage: %w", err)
	}

	sessions, err := newSessionCodec(logger, cfg)
	if err != nil {
		return fmt.Errorf("creating the session codec: %w", err)
	}

	// Start (main) API server
	logger.Info("initializing API server")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	e, err := rest.New(rest.Config{
		Logger:   logger,
		Sessions: sessions,
	})
	if err != nil {
		logger.WithError(err).Error("error creating the API server instance")
		return fmt.Errorf("creating the API server instance: %w", err)
	}

	// access logs must be in place before any route is registered
	if cfg.Debug {
		e.Use(accessLog(logger.Writer()))
	}

	// setup handlers
	var usersRepository = users.NewRepository(storage.Connection, []byte(cfg.Accounts.PasswordPepper))
	var sightingsStore = sightings.NewStore(storage.Connection)

	pages.RegisterHandlers(e)
	users.RegisterHandlers(e, usersRepository)
	sightings.RegisterHandlers(e, sightingsStore, gazetteer.New(storage.Connection),
		media.NewCache(mediaStore, cfg.Media.URLPrefix),
		sightings.Options{PageSize: cfg.Listing.PageSize, MaxUploadBytes: cfg.Web.MaxUploadBytes})

	e.ServeFiles("/static/*filepath", http.Dir(cfg.Web.StaticDir))

	handler := e.Handler()

	// Apply CORS policy, then recover from panics so that a single request can't bring the server down
	handler = applyCORSHandler(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(logger), handlers.PrintRecoveryStack(cfg.Debug))(handler)

	// create the API server
	server := http.Server{
		Addr:              cfg.Web.APIHost,
		Handler:           handler,
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	// Start the service listening for requests in a separate goroutine
	go func() {
		logger.Infof("API listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
		logger.Infof("stopping API server")
	}()

	// Waiting for shutdown signal or POSIX signals
	select {
	case err := <-serverErrors:
		// Non-recoverable server error
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and load shed.
		err = server.Shutdown(ctx)
		if err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			err = server.Close()
		}
		if err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func newMediaStore(logger logrus.FieldLogger, cfg WebAPIConfiguration) (media.Store, error) {
	if cfg.Media.Backend == mediaS3 {
		return media.NewBucket(context.Background(), logger, media.BucketConfig{
			Name:      cfg.Media.S3.Bucket,
			Prefix:    cfg.Media.S3.Prefix,
			Region:    cfg.Media.S3.Region,
			Endpoint:  cfg.Media.S3.Endpoint,
			AccessKey: cfg.Media.S3.AccessKey,
			SecretKey: cfg.Media.S3.SecretKey,
		})
	}
	return media.NewDirectory(logger, cfg.Media.Directory)
}

func newSessionCodec(logger logrus.FieldLogger, cfg WebAPIConfiguration) (*session.Codec, error) {
	var secret = []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		logger.Warning("no session secret configured, sessions won't survive restarts")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	return session.NewCodec(session.Config{
		Secret:     secret,
		CookieName: cfg.Session.CookieName,
		MaxAge:     cfg.Session.MaxAge,
		Secure:     cfg.Session.Secure,
	})
}
