// Package posts holds the post operations and their ownership rules. Writes are
// scoped by the owner in the statement itself, so the store's affected-row count
// decides whether the caller touched its own post.
package posts

import (
	"context"
	"errors"

	"blog-backend/internal/auth"
	"blog-backend/internal/db"
	"blog-backend/internal/types"
	"blog-backend/pkg/utils/markdown"
)

type Store interface {
	ListPosts(ctx context.Context) ([]*db.Post, error)
	ListPostsByUser(ctx context.Context, userID int64) ([]*db.Post, error)
	GetPost(ctx context.Context, postID int64) (*db.Post, error)
	CreatePost(ctx context.Context, userID int64, title, content string) (int64, error)
	UpdatePost(ctx context.Context, postID, userID int64, title, content string) (int64, error)
	DeletePost(ctx context.Context, postID, userID int64) (int64, error)
}

// Input is the client-editable part of a post.
type Input struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var (
	ErrInvalidInput = types.NewError(types.KindValidation, "Title and content are required")
	ErrNotFound     = types.NewError(types.KindNotFound, "Post not found")
	// missing and not-owned look the same to the caller
	ErrForbidden = types.NewError(types.KindForbidden, "Unauthorized or post not found")
)

type Service struct {
	store  Store
	render func(string) (string, error)
}

// NewService renders post content with a markdown renderer built from mdOpts.
func NewService(store Store, mdOpts ...markdown.Option) *Service {
	return &Service{store: store, render: markdown.NewRenderer(mdOpts...).Render}
}

func (s *Service) ListAll(ctx context.Context) ([]*db.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, types.Wrap(types.KindPersistence, err, "Error fetching posts")
	}
	return s.rendered(posts), nil
}

func (s *Service) ListOwn(ctx context.Context, id auth.Identity) ([]*db.Post, error) {
	posts, err := s.store.ListPostsByUser(ctx, id.ID)
	if err != nil {
		return nil, types.Wrap(types.KindPersistence, err, "Error fetching posts")
	}
	return s.rendered(posts), nil
}

func (s *Service) Get(ctx context.Context, postID int64) (*db.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, types.Wrap(types.KindPersistence, err, "Error fetching post")
	}
	s.renderPost(post)
	return post, nil
}

// Create stores a post owned by id and returns the new post id.
func (s *Service) Create(ctx context.Context, id auth.Identity, in Input) (int64, error) {
	if !in.valid() {
		return 0, ErrInvalidInput
	}
	postID, err := s.store.CreatePost(ctx, id.ID, in.Title, in.Content)
	if err != nil {
		return 0, types.Wrap(types.KindPersistence, err, "Error creating post")
	}
	return postID, nil
}

func (s *Service) Update(ctx context.Context, id auth.Identity, postID int64, in Input) error {
	if !in.valid() {
		return ErrInvalidInput
	}
	n, err := s.store.UpdatePost(ctx, postID, id.ID, in.Title, in.Content)
	if err != nil {
		return types.Wrap(types.KindPersistence, err, "Error updating post")
	}
	if n != 1 {
		return ErrForbidden
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, postID int64) error {
	n, err := s.store.DeletePost(ctx, postID, id.ID)
	if err != nil {
		return types.Wrap(types.KindPersistence, err, "Error deleting post")
	}
	if n != 1 {
		return ErrForbidden
	}
	return nil
}

func (in Input) valid() bool {
	return in.Title != "" && in.Content != ""
}

func (s *Service) rendered(posts []*db.Post) []*db.Post {
	if posts == nil {
		return []*db.Post{}
	}
	for _, p := range posts {
		s.renderPost(p)
	}
	return posts
}

// renderPost fills ContentHTML; a rendering failure leaves it empty.
func (s *Service) renderPost(p *db.Post) {
	html, err := s.render(p.Content)
	if err != nil {
		return
	}
	p.ContentHTML = html
}
