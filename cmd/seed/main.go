package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/geocoder89/postboard/internal/config"
	"github.com/geocoder89/postboard/internal/db"
	"github.com/geocoder89/postboard/internal/domain/post"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/geocoder89/postboard/internal/pagination"
	"github.com/geocoder89/postboard/internal/repo/postgres"
	"github.com/google/uuid"
)

// samplePosts are the public starter posts a fresh install gets.
var samplePosts = []post.CreatePostRequest{
	{
		Title: "Welcome to postboard",
		Body:  "This is a public post anyone can read. Sign up to write your own, public or private.",
	},
	{
		Title: "Keeping drafts private",
		Body:  "Posts created with private=true are visible only to their owner. Flip the flag any time with a partial update.",
	},
	{
		Title: "Paging through the feed",
		Body:  "The feed is windowed: pass limit (max 100), offset and orderBy=asc|desc to walk it in id order.",
	},
}

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// the seeder needs a fixed admin to own the sample posts
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@example.com"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "ChangeMeBeforeProd!"
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	ctx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	adminID, err := db.EnsureAdminUser(ctx, pool, cfg)

	if err != nil {
		log.Error("admin bootstrap failed", "err", err)
		os.Exit(1)
	}

	log.Info("admin ready", "id", adminID.String())

	repo := postgres.NewPostsRepo(pool, nil)

	created, err := seedPosts(ctx, repo, adminID)

	if err != nil {
		log.Error("post seeding failed", "err", err)
		os.Exit(1)
	}

	log.Info("seeding done", "posts_created", created)
}

// seedPosts inserts the sample posts, but only into an empty public feed:
// re-running the seeder never duplicates them.
func seedPosts(ctx context.Context, repo *postgres.PostsRepo, adminID uuid.UUID) (int, error) {
	existing, err := repo.Window(ctx, post.PublicScope(), pagination.Params{
		Limit: 1,
		Order: pagination.OrderAsc,
	})

	if err != nil {
		return 0, err
	}

	if len(existing) > 0 {
		return 0, nil
	}

	for _, req := range samplePosts {
		if _, err := repo.Create(ctx, adminID, req); err != nil {
			return 0, err
		}
	}

	return len(samplePosts), nil
}
