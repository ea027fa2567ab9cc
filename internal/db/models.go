package db

import "time"

type User struct {
	Id           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Post is a row of posts joined with its author's username.
type Post struct {
	Id          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	UserId      int64     `json:"user_id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
}
