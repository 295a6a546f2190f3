// Package server is the composition root: it wires the store, services,
// handlers and middleware into a router and runs the HTTP listener.
//
// ROUTES:
//
//	POST   /signup      → register
//	POST   /login       → issue a bearer token
//	POST   /newtodo     → create a todo            (bearer)
//	GET    /gettodos    → list the caller's todos  (bearer)
//	DELETE /deletetodo  → delete a todo            (bearer when strict_ownership)
//	PUT    /updatetodo  → update a todo            (bearer when strict_ownership)
//	GET    /healthz     → store ping
//
// MIDDLEWARE ORDER:
// RequestID runs first so the logger can read the id; Recoverer sits inside
// the logger so a recovered panic is still logged as a 500.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/config"
	"github.com/sakif/todo-api/internal/handler"
	"github.com/sakif/todo-api/internal/middleware"
	"github.com/sakif/todo-api/internal/repository"
	"github.com/sakif/todo-api/internal/service"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 15 * time.Second
	WriteTimeout      = 15 * time.Second
	IdleTimeout       = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

const corsMaxAge = 300

// Server holds the router and the dependencies it was built from.
//
// The store is owned by the caller: Server never closes it.
type Server struct {
	router chi.Router
	cfg    *config.Config
	logger *slog.Logger
}

// New builds the dependency graph on top of store and registers all routes.
// It fails when the JWT secret or bcrypt cost in cfg is unusable.
func New(cfg *config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("server: creating token service: %w", err)
	}
	passwords, err := auth.NewPasswordService(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("server: creating password service: %w", err)
	}

	authService := service.NewAuthService(store, tokens, passwords, logger)
	todoService := service.NewTodoService(store, cfg.StrictOwnership, logger)

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
	}
	s.routes(
		tokens,
		handler.NewAuthHandler(authService, logger),
		handler.NewTodoHandler(todoService, logger),
		handler.NewHealthHandler(store, logger),
	)
	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(
	tokens *auth.TokenService,
	authHandler *handler.AuthHandler,
	todoHandler *handler.TodoHandler,
	healthHandler *handler.HealthHandler,
) {
	r := s.router

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         corsMaxAge,
	}))

	r.NotFound(handler.HandleNotFound)
	r.MethodNotAllowed(handler.HandleMethodNotAllowed)

	r.Get("/healthz", healthHandler.HandleHealth)
	r.Post("/signup", authHandler.HandleSignup)
	r.Post("/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Post("/newtodo", todoHandler.HandleCreate)
		r.Get("/gettodos", todoHandler.HandleList)

		if s.cfg.StrictOwnership {
			r.Delete("/deletetodo", todoHandler.HandleDelete)
			r.Put("/updatetodo", todoHandler.HandleUpdate)
		}
	})

	if !s.cfg.StrictOwnership {
		r.Delete("/deletetodo", todoHandler.HandleDelete)
		r.Put("/updatetodo", todoHandler.HandleUpdate)
	}
}

// Run listens on the configured address and serves until ctx is canceled,
// then shuts down within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := Listen(ctx, s.cfg.Address)
	if err != nil {
		return fmt.Errorf("server: listening on %s: %w", s.cfg.Address, err)
	}

	grp, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{Handler: s.router} //nolint:gosec // Serve sets timeouts

	s.logger.InfoContext(ctx, "starting server",
		slog.String("address", listener.Addr().String()),
		slog.Bool("strict_ownership", s.cfg.StrictOwnership),
	)
	Serve(ctx, grp, srv, listener, ShutdownTimeout)

	if err := grp.Wait(); err != nil {
		return err
	}
	s.logger.InfoContext(context.WithoutCancel(ctx), "server stopped")
	return nil
}

// Listen creates a TCP listener on addr. Use "127.0.0.1:0" for a random port.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Serve runs srv on listener inside grp and shuts it down gracefully once ctx
// is canceled. Timeouts are set on srv here.
func Serve(
	ctx context.Context,
	grp *errgroup.Group,
	srv *http.Server,
	listener net.Listener,
	shutdownTimeout time.Duration,
) {
	srv.ReadHeaderTimeout = ReadHeaderTimeout
	srv.ReadTimeout = ReadTimeout
	srv.WriteTimeout = WriteTimeout
	srv.IdleTimeout = IdleTimeout

	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
