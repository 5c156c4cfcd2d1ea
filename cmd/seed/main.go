package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-blog-publisher/config"
	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/store"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
)

// seed creates a demo user with one draft and one published blog through the
// same services the API uses.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	stores, err := store.Open(ctx, cfg, logger, true)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer stores.Close()

	const (
		name     = "Demo User"
		email    = "demo@example.com"
		password = "password123"
	)

	auth := application.NewAuthService(stores.Users, helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL), logger)
	res, err := auth.Register(ctx, name, email, password)
	if errors.Is(err, application.ErrEmailTaken) {
		res, err = auth.Login(ctx, email, password)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", res.User.ID, email, password)

	blogs := application.NewBlogService(stores.Blogs, nil, logger)
	draft, err := blogs.SaveDraft(ctx, res.User.ID, application.BlogInput{
		Title:   "My first draft",
		Content: "Start writing here. Drafts auto-save every few seconds.",
		Tags:    application.SplitTags("welcome, draft"),
	})
	if err != nil {
		log.Fatalf("failed to seed draft: %v", err)
	}
	pub, err := blogs.Publish(ctx, res.User.ID, application.BlogInput{
		Title:   "Hello, world",
		Content: "This post was published by the seed command.",
		Tags:    []string{"welcome"},
	})
	if err != nil {
		log.Fatalf("failed to seed published blog: %v", err)
	}
	fmt.Printf("seeded blogs: draft=%s published=%s\n", draft.ID, pub.ID)
	fmt.Printf("bearer token: %s\n", res.Token)
}
