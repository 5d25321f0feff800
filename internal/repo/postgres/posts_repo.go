package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/postboard/internal/domain/post"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/geocoder89/postboard/internal/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postsWindow = windowSpec{
	table:         "posts",
	selectCols:    "id, user_id, title, body, private",
	idCol:         "id",
	ownerCol:      "user_id",
	visibilityCol: "private",
}

type PostsRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, metrics *observability.Prom) *PostsRepo {
	return &PostsRepo{
		pool:    pool,
		metrics: metrics,
	}
}

// Window runs one windowed, ordered, scoped read.
func (r *PostsRepo) Window(ctx context.Context, scope post.Scope, p pagination.Params) ([]post.Post, error) {
	query, args := postsWindow.buildWindowQuery(scope, p)

	output := make([]post.Post, 0, p.Limit)

	err := r.metrics.ObserveDB("posts.window", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var item post.Post

			err = rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Body, &item.Private)

			if err != nil {
				return err
			}

			output = append(output, item)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// GetScoped fetches one row that is visible under the given scope.
func (r *PostsRepo) GetScoped(ctx context.Context, id int64, scope post.Scope) (post.Post, error) {
	query, args := postsWindow.buildGetQuery(id, scope)

	var item post.Post

	err := r.metrics.ObserveDB("posts.get", func() error {
		return r.pool.QueryRow(ctx, query, args...).
			Scan(&item.ID, &item.UserID, &item.Title, &item.Body, &item.Private)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}

		return post.Post{}, err
	}

	return item, nil
}

// GetOwned fetches one row by id and owner, regardless of visibility.
// The mutation path uses it so the not-found answer never betrays whether
// the row exists under someone else's account.
func (r *PostsRepo) GetOwned(ctx context.Context, id int64, owner uuid.UUID) (post.Post, error) {
	var item post.Post

	err := r.metrics.ObserveDB("posts.get_owned", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, user_id, title, body, private FROM posts WHERE id = $1 AND user_id = $2`,
			id, owner,
		).Scan(&item.ID, &item.UserID, &item.Title, &item.Body, &item.Private)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}

		return post.Post{}, err
	}

	return item, nil
}

func (r *PostsRepo) Create(ctx context.Context, owner uuid.UUID, req post.CreatePostRequest) (post.Post, error) {
	var item post.Post

	err := r.metrics.ObserveDB("posts.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO posts (user_id, title, body, private)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, user_id, title, body, private`,
			owner, req.Title, req.Body, req.Private,
		).Scan(&item.ID, &item.UserID, &item.Title, &item.Body, &item.Private)
	})

	if err != nil {
		return post.Post{}, err
	}

	return item, nil
}

// Save writes the mutable columns of an already-loaded row. The id is
// immutable once assigned.
func (r *PostsRepo) Save(ctx context.Context, item post.Post) error {
	return r.metrics.ObserveDB("posts.save", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE posts SET title = $2, body = $3, private = $4 WHERE id = $1`,
			item.ID, item.Title, item.Body, item.Private,
		)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return post.ErrNotFound
		}

		return nil
	})
}
