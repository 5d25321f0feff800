package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/google/uuid"
)

// ErrNoCredential means a live request carried no auth cookie at all.
// It fires as soon as identity is touched, even if the operation would not
// have needed one.
var ErrNoCredential = errors.New("no auth cookie")

// ErrBadCredential wraps signature, claim and subject-parse failures.
var ErrBadCredential = errors.New("invalid auth cookie")

// Keep this small interface so tests can fake it easily.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Lazy resolves the caller's identity at most once per request and caches
// the outcome (identity, absent, or error) for the rest of it. A request is
// handled on a single goroutine, so no locking here.
type Lazy struct {
	verifier Verifier
	req      *http.Request // nil outside a live request

	done bool
	id   *uuid.UUID
	err  error
}

func NewLazy(verifier Verifier, req *http.Request) *Lazy {
	return &Lazy{verifier: verifier, req: req}
}

// Anonymous is a Lazy with no transport context: identity is absent,
// never an error. Used by callers running outside a request (seeding, tests).
func Anonymous() *Lazy {
	return &Lazy{}
}

// Resolve returns the caller's identity. A nil id with nil error means
// "absent" (no transport context); a nil id with an error means the request
// carried a missing or broken credential.
func (l *Lazy) Resolve() (*uuid.UUID, error) {
	if !l.done {
		l.id, l.err = l.resolve()
		l.done = true
	}

	return l.id, l.err
}

func (l *Lazy) resolve() (*uuid.UUID, error) {
	if l.req == nil {
		return nil, nil
	}

	cookie, err := l.req.Cookie(auth.CookieName)

	if err != nil || cookie.Value == "" {
		return nil, ErrNoCredential
	}

	claims, err := l.verifier.Verify(cookie.Value)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCredential, err)
	}

	// identity is the segment after the LAST delimiter; usernames may
	// themselves contain one
	sub := claims.Subject

	if idx := strings.LastIndex(sub, auth.SubjectDelimiter); idx >= 0 {
		sub = sub[idx+len(auth.SubjectDelimiter):]
	}

	id, err := uuid.Parse(sub)

	if err != nil {
		return nil, fmt.Errorf("%w: parse subject: %w", ErrBadCredential, err)
	}

	return &id, nil
}
