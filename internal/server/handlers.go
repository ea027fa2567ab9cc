package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blog-backend/internal/auth"
	"blog-backend/internal/posts"
	"blog-backend/pkg/utils"
)

type key int

const (
	postKey key = iota
	identityKey
)

// PostCtx adds the {postID} url param to the context. An unparsable id becomes 0,
// so reads answer 404 and owner-scoped writes answer 403 like any other miss.
func PostCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := utils.ParseID(chi.URLParam(r, "postID"))
		ctx := context.WithValue(r.Context(), postKey, postID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity rejects the request unless the verifier resolved a caller.
func (s *Server) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identity(r *http.Request) auth.Identity {
	id, _ := r.Context().Value(identityKey).(auth.Identity)
	return id
}

func postID(r *http.Request) int64 {
	id, _ := r.Context().Value(postKey).(int64)
	return id
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blogging Platform Backend"})
}

func (s *Server) GetAllPosts(w http.ResponseWriter, r *http.Request) {
	all, err := s.posts.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) GetMyPosts(w http.ResponseWriter, r *http.Request) {
	own, err := s.posts.ListOwn(r.Context(), identity(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, own)
}

func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.Get(r.Context(), postID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in posts.Input
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.posts.Create(r.Context(), identity(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Post created successfully", "id": id})
}

func (s *Server) HandleEditPost(w http.ResponseWriter, r *http.Request) {
	var in posts.Input
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.posts.Update(r.Context(), identity(r), postID(r), in); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post updated successfully"})
}

func (s *Server) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Delete(r.Context(), identity(r), postID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.accounts.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered successfully", "user": user})
}

func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, user, err := s.accounts.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}
