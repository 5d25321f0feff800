package post

// NotFound is the expected-absence outcome. It travels as data, not as an
// error: a missing user or a post the caller may not see is a normal answer.
type NotFound struct {
	Message string `json:"message"`
}

// Result is a two-case variant: exactly one of Post or NotFound is set.
// Every caller branches on IsNotFound before touching Post.
type Result struct {
	Post     *Post
	NotFound *NotFound
}

func Found(p Post) Result {
	return Result{Post: &p}
}

func Missing(message string) Result {
	return Result{NotFound: &NotFound{Message: message}}
}

func (r Result) IsNotFound() bool {
	return r.NotFound != nil
}
