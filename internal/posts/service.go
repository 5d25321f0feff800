package posts

import (
	"context"
	"errors"

	"github.com/geocoder89/postboard/internal/domain/post"
	"github.com/geocoder89/postboard/internal/pagination"
	"github.com/google/uuid"
)

const (
	msgUserNotFound = "User don't found"
	msgPostNotFound = "Post don't found"
	// deliberately does not distinguish "wrong id" from "not your post";
	// otherwise non-owners could probe which private ids exist
	msgPostNotFoundOrInvalid = "Post don't found or invalid account"
)

// Caller hands out the request's resolved identity. Resolution is lazy, so
// public reads that never call Resolve work without any credential.
type Caller interface {
	Resolve() (*uuid.UUID, error)
}

type PostsStore interface {
	Window(ctx context.Context, scope post.Scope, p pagination.Params) ([]post.Post, error)
	GetScoped(ctx context.Context, id int64, scope post.Scope) (post.Post, error)
	GetOwned(ctx context.Context, id int64, owner uuid.UUID) (post.Post, error)
	Create(ctx context.Context, owner uuid.UUID, req post.CreatePostRequest) (post.Post, error)
	Save(ctx context.Context, item post.Post) error
}

type UserReader interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service is the authorization-scoped query and mutation layer over posts.
// Each store call is its own session: a multi-step mutation is NOT one
// transaction, so a concurrent writer can slip in between the ownership
// check and the write.
type Service struct {
	posts PostsStore
	users UserReader
}

func NewService(posts PostsStore, users UserReader) *Service {
	return &Service{
		posts: posts,
		users: users,
	}
}

// GetAllPosts returns one window of the caller's private posts or of the
// world-readable public feed.
func (s *Service) GetAllPosts(ctx context.Context, who Caller, private bool, p pagination.Params) (pagination.Window[post.Post], error) {
	if err := p.Validate(); err != nil {
		return pagination.Window[post.Post]{}, err
	}

	scope, err := s.scopeFor(who, private)

	if err != nil {
		return pagination.Window[post.Post]{}, err
	}

	items, err := s.posts.Window(ctx, scope, p)

	if err != nil {
		return pagination.Window[post.Post]{}, err
	}

	return pagination.NewWindow(items), nil
}

// GetPost fetches one post under the requested visibility. The not-found
// message is identical for "does not exist" and "exists but not visible to
// you".
func (s *Service) GetPost(ctx context.Context, who Caller, id int64, private bool) (post.Result, error) {
	scope, err := s.scopeFor(who, private)

	if err != nil {
		return post.Result{}, err
	}

	item, err := s.posts.GetScoped(ctx, id, scope)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return post.Missing(msgPostNotFound), nil
		}

		return post.Result{}, err
	}

	return post.Found(item), nil
}

// AddPost creates a post owned by the resolved caller.
func (s *Service) AddPost(ctx context.Context, who Caller, req post.CreatePostRequest) (post.Result, error) {
	owner, err := s.requireUser(ctx, who)

	if err != nil {
		return post.Result{}, err
	}

	if owner == nil {
		return post.Missing(msgUserNotFound), nil
	}

	created, err := s.posts.Create(ctx, *owner, req)

	if err != nil {
		return post.Result{}, err
	}

	return post.Found(created), nil
}

// UpdatePost partially updates an owned post: nil Title/Body are left
// unchanged, Private is always overwritten. The result is re-read through
// the GetPost path keyed by the NEW private value, so a visibility flip
// still round-trips.
func (s *Service) UpdatePost(ctx context.Context, who Caller, id int64, req post.UpdatePostRequest) (post.Result, error) {
	owner, err := s.requireUser(ctx, who)

	if err != nil {
		return post.Result{}, err
	}

	if owner == nil {
		return post.Missing(msgUserNotFound), nil
	}

	existing, err := s.posts.GetOwned(ctx, id, *owner)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return post.Missing(msgPostNotFoundOrInvalid), nil
		}

		return post.Result{}, err
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}

	if req.Body != nil {
		existing.Body = *req.Body
	}

	existing.Private = req.Private

	err = s.posts.Save(ctx, existing)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return post.Missing(msgPostNotFoundOrInvalid), nil
		}

		return post.Result{}, err
	}

	return s.GetPost(ctx, who, id, existing.Private)
}

// requireUser resolves the caller and checks a user row backs the identity.
// A nil id with nil error means "no such user": mutations answer that with
// the NotFound variant, not a failure.
func (s *Service) requireUser(ctx context.Context, who Caller) (*uuid.UUID, error) {
	id, err := who.Resolve()

	if err != nil {
		return nil, err
	}

	if id == nil {
		return nil, nil
	}

	exists, err := s.users.Exists(ctx, *id)

	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, nil
	}

	return id, nil
}

// scopeFor builds the read predicate. Public scope never touches identity,
// so anonymous public reads cannot trip over a missing credential.
func (s *Service) scopeFor(who Caller, private bool) (post.Scope, error) {
	if !private {
		return post.PublicScope(), nil
	}

	id, err := who.Resolve()

	if err != nil {
		return post.Scope{}, err
	}

	return post.PrivateScope(id), nil
}
