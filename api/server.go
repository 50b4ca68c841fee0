// Package api exposes generation, proof checking and the audit log over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	jwtutil "PRNG/jwt"
	"PRNG/prng"
	"PRNG/ws"
)

const (
	// DefaultMaxLength caps the length a single request may ask for.
	DefaultMaxLength = 1 << 20

	defaultPageSize = 100
	maxPageSize     = 1000
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Server routes HTTP requests to a prng.Service.
type Server struct {
	svc       *prng.Service
	auth      *jwtutil.Authenticator
	maxLength uint64
	logger    *zap.Logger
	mux       *http.ServeMux
}

type Option func(*Server)

// WithAuthenticator requires a bearer token on POST /api/random.
func WithAuthenticator(a *jwtutil.Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

func WithMaxLength(n uint64) Option {
	return func(s *Server) { s.maxLength = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func NewServer(svc *prng.Service, opts ...Option) *Server {
	s := &Server{
		svc:       svc,
		maxLength: DefaultMaxLength,
		logger:    zap.NewNop(),
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("POST /api/random", s.requireToken(http.HandlerFunc(s.handleRandom)))
	s.mux.HandleFunc("POST /api/proving", s.handleProving)
	s.mux.HandleFunc("GET /api/records", s.handleListRecords)
	s.mux.HandleFunc("GET /api/records/{index}", s.handleGetRecord)
	s.mux.HandleFunc("GET /api/records/{index}/receipt.png", s.handleReceipt)
	s.mux.HandleFunc("GET /api/records/{index}/verify", s.handleVerifyRecord)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.Handle("GET /ws", ws.NewHub(s.svc.Feed(), s.logger.Named("ws")))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
