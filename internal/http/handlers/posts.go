package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/geocoder89/postboard/internal/domain/post"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/identity"
	"github.com/geocoder89/postboard/internal/pagination"
	"github.com/geocoder89/postboard/internal/posts"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake the whole service.
type PostsService interface {
	GetAllPosts(ctx context.Context, who posts.Caller, private bool, p pagination.Params) (pagination.Window[post.Post], error)
	GetPost(ctx context.Context, who posts.Caller, id int64, private bool) (post.Result, error)
	AddPost(ctx context.Context, who posts.Caller, req post.CreatePostRequest) (post.Result, error)
	UpdatePost(ctx context.Context, who posts.Caller, id int64, req post.UpdatePostRequest) (post.Result, error)
}

type PostsHandler struct {
	svc PostsService
}

func NewPostsHandler(svc PostsService) *PostsHandler {
	return &PostsHandler{svc: svc}
}

func (h *PostsHandler) ListPosts(ctx *gin.Context) {
	limit, ok := intQuery(ctx, "limit", 10)
	if !ok {
		return
	}

	offset, ok := intQuery(ctx, "offset", 0)
	if !ok {
		return
	}

	private, ok := boolQuery(ctx, "private", true)
	if !ok {
		return
	}

	params := pagination.Params{
		Limit:  limit,
		Offset: offset,
		Order:  pagination.OrderFrom(ctx.DefaultQuery("orderBy", "asc")),
	}

	window, err := h.svc.GetAllPosts(ctx.Request.Context(), middlewares.CallerFromContext(ctx), private, params)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, window)
}

func (h *PostsHandler) GetPostById(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}

	private, ok := boolQuery(ctx, "private", true)
	if !ok {
		return
	}

	res, err := h.svc.GetPost(ctx.Request.Context(), middlewares.CallerFromContext(ctx), id, private)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if res.IsNotFound() {
		ctx.JSON(http.StatusNotFound, res.NotFound)
		return
	}

	ctx.JSON(http.StatusOK, res.Post)
}

func (h *PostsHandler) AddPost(ctx *gin.Context) {
	var req post.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	res, err := h.svc.AddPost(ctx.Request.Context(), middlewares.CallerFromContext(ctx), req)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if res.IsNotFound() {
		ctx.JSON(http.StatusNotFound, res.NotFound)
		return
	}

	ctx.JSON(http.StatusCreated, res.Post)
}

func (h *PostsHandler) UpdatePost(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}

	var req post.UpdatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	res, err := h.svc.UpdatePost(ctx.Request.Context(), middlewares.CallerFromContext(ctx), id, req)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if res.IsNotFound() {
		ctx.JSON(http.StatusNotFound, res.NotFound)
		return
	}

	ctx.JSON(http.StatusOK, res.Post)
}

// respondServiceError maps service failures at the boundary: credential
// problems become 401, everything else (a bad limit included) is a generic
// server error with no domain-specific code.
func respondServiceError(ctx *gin.Context, err error) {
	if errors.Is(err, identity.ErrNoCredential) || errors.Is(err, identity.ErrBadCredential) {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials.")
		return
	}

	RespondInternal(ctx, "Internal server error.")
}

func postID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "post id must be an integer", nil)
		return 0, false
	}

	return id, true
}

func intQuery(ctx *gin.Context, name string, fallback int) (int, bool) {
	raw := ctx.Query(name)

	if raw == "" {
		return fallback, true
	}

	v, err := strconv.Atoi(raw)

	if err != nil {
		RespondBadRequest(ctx, name+" must be an integer", nil)
		return 0, false
	}

	return v, true
}

func boolQuery(ctx *gin.Context, name string, fallback bool) (bool, bool) {
	raw := ctx.Query(name)

	if raw == "" {
		return fallback, true
	}

	v, err := strconv.ParseBool(raw)

	if err != nil {
		RespondBadRequest(ctx, name+" must be a boolean", nil)
		return false, false
	}

	return v, true
}
