package post

import (
	"errors"

	"github.com/google/uuid"
)

type Post struct {
	ID      int64     `json:"id"`
	UserID  uuid.UUID `json:"userId"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Private bool      `json:"private"`
}

var ErrNotFound = errors.New("post not found")

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Body    string `json:"body" binding:"required"`
	Private bool   `json:"private"`
}

// UpdatePostRequest is a partial update: nil pointer fields are left
// untouched, Private is always written.
type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Body    *string `json:"body"`
	Private bool    `json:"private"`
}
