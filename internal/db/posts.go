package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const selectPosts = `
	SELECT posts.id, posts.title, posts.content, posts.user_id, users.username, posts.created_at
	FROM posts JOIN users ON posts.user_id = users.id`

const newestFirst = ` ORDER BY posts.created_at DESC, posts.id DESC`

func (g *Gateway) ListPosts(ctx context.Context) ([]*Post, error) {
	return g.queryPosts(ctx, "list posts", selectPosts+newestFirst)
}

func (g *Gateway) ListPostsByUser(ctx context.Context, userID int64) ([]*Post, error) {
	return g.queryPosts(ctx, "list posts by user", selectPosts+` WHERE posts.user_id = ?`+newestFirst, userID)
}

func (g *Gateway) GetPost(ctx context.Context, postID int64) (*Post, error) {
	var post Post
	row := g.db.QueryRowContext(ctx, g.rebind(selectPosts+` WHERE posts.id = ?`), postID)
	err := row.Scan(&post.Id, &post.Title, &post.Content, &post.UserId, &post.Username, &post.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get post %d", postID)
	}
	return &post, nil
}

// CreatePost inserts a post owned by userID and returns its id.
func (g *Gateway) CreatePost(ctx context.Context, userID int64, title, content string) (int64, error) {
	var id int64
	err := g.db.QueryRowContext(ctx,
		g.rebind("INSERT INTO posts (title, content, user_id, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		title, content, userID, g.now()).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "create post")
	}
	return id, nil
}

// UpdatePost rewrites a post only if userID owns it and reports the rows affected.
func (g *Gateway) UpdatePost(ctx context.Context, postID, userID int64, title, content string) (int64, error) {
	res, err := g.db.ExecContext(ctx,
		g.rebind("UPDATE posts SET title = ?, content = ? WHERE id = ? AND user_id = ?"),
		title, content, postID, userID)
	if err != nil {
		return 0, errors.Wrapf(err, "update post %d", postID)
	}
	return affected(res)
}

// DeletePost removes a post only if userID owns it and reports the rows affected.
func (g *Gateway) DeletePost(ctx context.Context, postID, userID int64) (int64, error) {
	res, err := g.db.ExecContext(ctx,
		g.rebind("DELETE FROM posts WHERE id = ? AND user_id = ?"),
		postID, userID)
	if err != nil {
		return 0, errors.Wrapf(err, "delete post %d", postID)
	}
	return affected(res)
}

func (g *Gateway) queryPosts(ctx context.Context, op, query string, args ...any) ([]*Post, error) {
	rows, err := g.db.QueryContext(ctx, g.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.Id, &post.Title, &post.Content, &post.UserId, &post.Username, &post.CreatedAt); err != nil {
			return nil, errors.Wrap(err, op)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return posts, nil
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}
