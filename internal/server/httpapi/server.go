// Package httpapi serves the ledger as a JSON HTTP API alongside the gRPC
// endpoint. Both transports share the same services.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/voices/internal/logging"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type userSvc interface {
	Register(ctx context.Context, email, credential string) (models.Account, error)
	Authenticate(ctx context.Context, email, credential string) (models.Account, error)
	IssueToken(acc models.Account) (string, error)
	Identify(token string) (models.Account, error)
}

type postSvc interface {
	List(ctx context.Context, sort models.SortOrder, category *models.Category) ([]*models.Post, error)
	Create(ctx context.Context, np models.NewPost) (*models.Post, error)
	Update(ctx context.Context, id, requesterID string, u models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id, requesterID string) error
	ApplyVote(ctx context.Context, id, voterID string, delta votes.Vote) (*models.Post, error)
}

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address       string
	users         userSvc
	posts         postSvc
	logger        logging.Logger
	responseDelay time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us userSvc, ps postSvc, responseDelay time.Duration) *HTTPServer {
	return &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		users:         us,
		posts:         ps,
		responseDelay: responseDelay,
	}
}

// Handler builds the router.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/api/ping", s.handlePing)

	r.Group(func(r chi.Router) {
		r.Use(s.delay)

		r.Post("/api/register", s.handleRegister)
		r.Post("/api/login", s.handleLogin)
		r.Get("/api/posts", s.handleListPosts)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAccount)

			r.Post("/api/posts", s.handleCreatePost)
			r.Route("/api/posts/{id}", func(r chi.Router) {
				r.Put("/", s.handleUpdatePost)
				r.Delete("/", s.handleDeletePost)
				r.Post("/vote", s.handleApplyVote)
			})
		})
	})

	return r
}

// Serve handles requests on lis until ctx is cancelled, then shuts down
// gracefully.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
