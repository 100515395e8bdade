package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	repository "github.com/ds124wfegd/eventhive/internal/database/memory"
	"github.com/ds124wfegd/eventhive/internal/transport"
	"github.com/ds124wfegd/eventhive/internal/transport/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewHandler builds the seeded in-memory backend and its router.
func NewHandler(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	repos := repository.NewRepositories(repository.NewStore())
	if err := repository.Seed(ctx, repos, cfg.Server.SeedPassword); err != nil {
		return nil, err
	}

	tokens := middleware.NewTokenManager(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	return transport.InitRoutes(transport.NewHandlers(repos, tokens), tokens, cfg.Server.Timeout), nil
}

// NewServer runs the mock API until SIGINT or SIGTERM.
func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler, err := NewHandler(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize mock backend: %v", err)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":          net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		"admin_email":   repository.SeedAdminEmail,
		"student_email": repository.SeedStudentEmail,
	}).Print("Mock API Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("Mock API Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
