// Package server wires the calendar runtime and HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/calshare/calshare/internal/platform/config"
	"github.com/calshare/calshare/internal/platform/timeouts"
	"github.com/calshare/calshare/internal/services/calendar/api/httpapi"
	"github.com/calshare/calshare/internal/services/calendar/domain"
	"github.com/calshare/calshare/internal/services/calendar/invite"
	"github.com/calshare/calshare/internal/services/calendar/mail"
	calendarsqlite "github.com/calshare/calshare/internal/services/calendar/storage/sqlite"
	"github.com/calshare/calshare/internal/services/calendar/sync"
)

type serverEnv struct {
	DBPath        string `env:"CALSHARE_DB_PATH"`
	AcceptURLBase string `env:"CALSHARE_INVITE_ACCEPT_URL"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "calendar.db")
	}
	if strings.TrimSpace(cfg.AcceptURLBase) == "" {
		cfg.AcceptURLBase = "http://localhost:8080/invitations/accept"
	}
	return cfg
}

// Server hosts the calendar HTTP API and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *calendarsqlite.Store
}

// New creates a configured calendar server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured calendar server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	store, err := calendarsqlite.Open(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("open calendar store: %w", err)
	}

	tokenCfg, err := invite.LoadConfigFromEnv(nil)
	if err != nil {
		_ = store.Close()
		_ = listener.Close()
		return nil, err
	}
	tokens, err := invite.NewService(tokenCfg)
	if err != nil {
		_ = store.Close()
		_ = listener.Close()
		return nil, err
	}

	sender, err := buildMailSender()
	if err != nil {
		_ = store.Close()
		_ = listener.Close()
		return nil, err
	}

	mirror, err := buildMirror(context.Background())
	if err != nil {
		_ = store.Close()
		_ = listener.Close()
		return nil, err
	}

	adapter := newDomainStoreAdapter(store, store, store, store, store)
	service := domain.NewService(domain.Deps{
		Store:         adapter,
		Mirror:        mirror,
		Tokens:        tokens,
		Mailer:        sender,
		AcceptURLBase: env.AcceptURLBase,
	})

	httpServer := &http.Server{
		Handler:           httpapi.NewHandler(service),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		listener:   listener,
		httpServer: httpServer,
		store:      store,
	}, nil
}

func buildMailSender() (mail.Sender, error) {
	var cfg mail.SMTPConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, fmt.Errorf("parse smtp env: %w", err)
	}
	if strings.TrimSpace(cfg.Host) == "" {
		log.Printf("smtp is not configured; invitation emails will be logged")
		return mail.LogSender{}, nil
	}
	return mail.NewSMTPSender(cfg)
}

func buildMirror(ctx context.Context) (sync.Mirror, error) {
	var cfg sync.GoogleConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, fmt.Errorf("parse google env: %w", err)
	}
	if !cfg.Enabled() {
		log.Printf("google mirror is not configured; calendars will not be mirrored")
		return sync.NopMirror{}, nil
	}
	return sync.NewGoogleMirror(ctx, cfg)
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a calendar server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a calendar server on addr until context
// cancellation.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation. On cancellation it
// performs a bounded shutdown so in-flight requests are drained before hard
// close.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("calendar server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		<-serveErr
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases calendar server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close calendar store: %v", err)
		}
	}
}
