package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/wire"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorDuplicateAccount):
		return http.StatusConflict, err.Error()
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "post not found"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusForbidden, "only the author may change this post"
	case errors.Is(err, common.ErrorUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code, msg := statusFor(err)
	writeJSON(w, code, errorResponse{Error: msg})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", common.ErrorValidation, err)
	}
	return nil
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wire.PingResponse{Status: "OK"})
}

func (s *HTTPServer) respondAuth(w http.ResponseWriter, r *http.Request, code int, acc models.Account) {
	token, err := s.users.IssueToken(acc)
	if err != nil {
		s.logger.Error(r.Context(), "token issue failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, code, wire.AuthResponse{Account: acc, AccessToken: token})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req wire.CredentialsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	acc, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondAuth(w, r, http.StatusCreated, acc)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req wire.CredentialsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	acc, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondAuth(w, r, http.StatusOK, acc)
}

func (s *HTTPServer) handleListPosts(w http.ResponseWriter, r *http.Request) {
	sort, err := models.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, err)
		return
	}
	category, err := models.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	posts, err := s.posts.List(r.Context(), sort, category)
	if err != nil {
		s.logger.Error(r.Context(), "list failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.ListPostsResponse{Posts: posts})
}

func (s *HTTPServer) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req wire.CreatePostRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	acc := requester(r.Context())
	p, err := s.posts.Create(r.Context(), models.NewPost{
		Problem:     req.Problem,
		Solution:    req.Solution,
		Category:    req.Category,
		Address:     req.Address,
		Location:    req.Location,
		AuthorID:    acc.ID,
		AuthorEmail: acc.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.PostResponse{Post: p})
}

func (s *HTTPServer) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var u models.PostUpdate
	if err := decode(r, &u); err != nil {
		writeError(w, err)
		return
	}

	p, err := s.posts.Update(r.Context(), chi.URLParam(r, "id"), requester(r.Context()).ID, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.PostResponse{Post: p})
}

func (s *HTTPServer) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Delete(r.Context(), chi.URLParam(r, "id"), requester(r.Context()).ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleApplyVote(w http.ResponseWriter, r *http.Request) {
	var req wire.ApplyVoteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := s.posts.ApplyVote(r.Context(), chi.URLParam(r, "id"), requester(r.Context()).ID, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.PostResponse{Post: p})
}
