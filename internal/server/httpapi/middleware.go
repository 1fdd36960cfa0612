package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/felixge/httpsnoop"
)

type ctxKey string

const accountKey ctxKey = "account"

func (s *HTTPServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info(r.Context(), "handled",
			"method", r.Method, "path", r.URL.Path, "status", m.Code, "duration", m.Duration, "bytes", m.Written)
	})
}

func (s *HTTPServer) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.responseDelay > 0 {
			t := time.NewTimer(s.responseDelay)
			defer t.Stop()
			select {
			case <-r.Context().Done():
				return
			case <-t.C:
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAccount resolves "Authorization: Bearer <token>" into the
// requesting account.
func (s *HTTPServer) requireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrorUnauthenticated)
			return
		}

		acc, err := s.users.Identify(token)
		if err != nil {
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey, acc)))
	})
}

func requester(ctx context.Context) models.Account {
	acc, _ := ctx.Value(accountKey).(models.Account)
	return acc
}
