// Package seed populates the database with generated fixture data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postsio/internal/middleware"
	"postsio/internal/models"
	"postsio/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// Options controls how much fixture data Run generates.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
}

// DefaultOptions returns a small development-sized fixture set.
func DefaultOptions() Options {
	return Options{Users: 20, PostsPerUser: 2, CommentsPerPost: 3}
}

// Run creates users through the user repository (which exercises the
// welcome-post provisioning), then extra posts and comments between them.
func Run(ctx context.Context, users repository.UserRepository, posts repository.PostRepository, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	statuses := []models.UserStatus{
		models.StatusActive, models.StatusActive, models.StatusActive,
		models.StatusPending, models.StatusInactive,
	}
	genders := []models.Gender{models.GenderMale, models.GenderFemale, models.GenderNonBinary}

	created := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		signup := gofakeit.DateRange(time.Now().AddDate(-2, 0, 0), time.Now())
		birth := gofakeit.DateRange(time.Now().AddDate(-60, 0, 0), time.Now().AddDate(-18, 0, 0))

		user := &models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:       fmt.Sprintf("seed%d.%s", i, gofakeit.Email()),
			Password:    gofakeit.Password(true, true, true, false, false, 16),
			DateCreated: &signup,
			Status:      statuses[i%len(statuses)],
			Gender:      genders[i%len(genders)],
			Birthdate:   &birth,
		}
		if user.Status == models.StatusPending {
			user.Password = ""
		}

		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		created = append(created, user)
	}

	for _, owner := range created {
		for p := 0; p < opts.PostsPerUser; p++ {
			post := &models.Post{
				Title:   gofakeit.Sentence(5),
				Content: gofakeit.Paragraph(1, 3, 12, " "),
				UserID:  owner.ID,
			}
			if err := posts.Create(ctx, post); err != nil {
				return fmt.Errorf("seeding post for user %s: %w", owner.ID, err)
			}

			for c := 0; c < opts.CommentsPerPost; c++ {
				author := created[gofakeit.Number(0, len(created)-1)]
				comment := &models.Comment{
					Content: gofakeit.Sentence(8),
					UserID:  author.ID,
				}
				if err := posts.AddComment(ctx, post.ID, comment); err != nil {
					return fmt.Errorf("seeding comment on post %s: %w", post.ID, err)
				}
			}
		}
	}

	middleware.Logger.Info("seeding complete",
		slog.Int("users", len(created)),
		slog.Int("posts_per_user", opts.PostsPerUser),
	)
	return nil
}
