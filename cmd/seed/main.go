// Command seed fills the configured database with fake users and posts.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/auth"
	"blog-backend/internal/config"
	"blog-backend/internal/db"
)

func main() {
	users := flag.Int("users", 5, "number of users to create")
	postsPerUser := flag.Int("posts", 4, "posts per user")
	password := flag.String("password", "password", "password for every seeded user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	gateway, err := db.Open(ctx, db.Config{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, MaxOpenConns: cfg.MaxOpenConns})
	if err != nil {
		log.Fatal(err)
	}
	defer gateway.Close()

	hash, err := auth.HashPassword(*password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	created := 0
	for i := 0; i < *users; i++ {
		username := gofakeit.Username()
		userID, err := gateway.CreateUser(ctx, username, hash)
		if errors.Is(err, db.ErrDuplicate) {
			continue
		}
		if err != nil {
			log.Fatal(err)
		}
		for j := 0; j < *postsPerUser; j++ {
			title := gofakeit.Sentence(5)
			content := gofakeit.Paragraph(3, 4, 12, "\n\n")
			if _, err := gateway.CreatePost(ctx, userID, title, content); err != nil {
				log.Fatal(err)
			}
			created++
		}
		log.Printf("seeded user %s", username)
	}
	log.Printf("seeded %d posts", created)
}
