// Command seed loads generated fixture data into the configured database.
package main

import (
	"context"
	"flag"
	"log"

	"postsio/internal/config"
	"postsio/internal/database"
	"postsio/internal/repository"
	"postsio/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "extra posts per user")
	flag.IntVar(&opts.CommentsPerPost, "comments", opts.CommentsPerPost, "comments per post")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db, postRepo)

	if err := seed.Run(ctx, userRepo, postRepo, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
