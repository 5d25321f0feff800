package middlewares

import (
	"github.com/geocoder89/postboard/internal/identity"
	"github.com/gin-gonic/gin"
)

// Identity attaches a lazy identity resolver to every request. Nothing is
// decoded here: the cookie is only touched when a handler first asks.
func Identity(verifier identity.Verifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(CtxCaller, identity.NewLazy(verifier, ctx.Request))
		ctx.Next()
	}
}

// CallerFromContext returns the request's identity resolver. Outside the
// middleware (unit tests mounting a bare handler) it degrades to an
// anonymous caller.
func CallerFromContext(ctx *gin.Context) *identity.Lazy {
	v, ok := ctx.Get(CtxCaller)

	if !ok {
		return identity.Anonymous()
	}

	caller, ok := v.(*identity.Lazy)

	if !ok {
		return identity.Anonymous()
	}

	return caller
}
