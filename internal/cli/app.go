package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/client"
	"github.com/ds124wfegd/eventhive/internal/notify"
	"github.com/ds124wfegd/eventhive/internal/service"
	"github.com/ds124wfegd/eventhive/internal/session"
	"github.com/ds124wfegd/eventhive/pkg/redis"
	"github.com/sirupsen/logrus"
)

// app is everything one command invocation needs.
type app struct {
	cfg       *config.Config
	session   *session.Session
	svc       *service.Service
	publisher notify.Publisher
	now       func() time.Time
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sess := session.New(storage)
	if err := sess.Init(ctx); err != nil {
		storage.Close()
		return nil, err
	}
	if sess.Authenticated() && sess.Expired(time.Now()) {
		logrus.Debug("Stored token expired, signing out")
		if err := sess.Clear(ctx); err != nil {
			logrus.WithError(err).Warn("Failed to clear expired session")
		}
	}

	state := service.NewState()
	api := client.New(&cfg.API, sess,
		client.WithImageOptions(client.ImageOptions{
			MaxDimension: cfg.Upload.MaxDimension,
			JPEGQuality:  cfg.Upload.JPEGQuality,
		}),
		client.WithUnauthorizedHandler(func(ctx context.Context) {
			state.Reset()
			if err := sess.Clear(context.WithoutCancel(ctx)); err != nil {
				logrus.WithError(err).Warn("Failed to clear session")
			}
		}),
	)

	publisher := notify.New(&cfg.Broker)

	svc := service.NewService(service.Deps{
		API:       api,
		Session:   sess,
		State:     state,
		Publisher: publisher,
		Workflow:  cfg.Workflow,
	})

	return &app{cfg: cfg, session: sess, svc: svc, publisher: publisher, now: time.Now}, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (session.Storage, error) {
	switch cfg.Session.Driver {
	case "sqlite", "":
		return session.NewSQLiteStorage(ctx, cfg.Session.Path, cfg.Session.Profile)
	case "redis":
		rdb, err := redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStorage(rdb, cfg.Session.Profile), nil
	case "memory":
		return session.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		logrus.WithError(err).Debug("Failed to close publisher")
	}
	if err := a.session.Close(); err != nil {
		logrus.WithError(err).Debug("Failed to close session storage")
	}
}

func setupLogging(cfg *config.LogConfig, verbose bool) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	logrus.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}
