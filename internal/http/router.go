package http

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/geocoder89/postboard/internal/config"
	"github.com/geocoder89/postboard/internal/http/handlers"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/geocoder89/postboard/internal/posts"
	"github.com/geocoder89/postboard/internal/ratelimit"
	"github.com/geocoder89/postboard/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(cfg config.Config, pool *pgxpool.Pool, prom *observability.Prom, limiter ratelimit.Limiter, jwtManager *auth.Manager) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("postboard"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.Identity(jwtManager))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	if limiter != nil {
		r.Use(middlewares.RateLimit(limiter, middlewares.KeyByIP))
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// wire up repositories and the posts service

	postsRepo := postgres.NewPostsRepo(pool, prom)
	usersRepo := postgres.NewUsersRepo(pool, prom)
	postsService := posts.NewService(postsRepo, usersRepo)

	postsHandler := handlers.NewPostsHandler(postsService)
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, cfg)
	randomHandler := handlers.NewRandomHandler("")

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Welcome to postboard!"})
	})

	r.GET("/posts", postsHandler.ListPosts)
	r.GET("/posts/:id", postsHandler.GetPostById)
	r.POST("/posts", postsHandler.AddPost)
	r.PATCH("/posts/:id", postsHandler.UpdatePost)

	r.POST("/auth/signup", authHandler.SignUp)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/me", authHandler.Me)

	r.GET("/random", randomHandler.GetRandomNumber)

	return r
}
