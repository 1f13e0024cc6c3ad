package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-rest-api/internal/auth"
	"github.com/iliyamo/blog-rest-api/internal/config"
	"github.com/iliyamo/blog-rest-api/internal/database"
	"github.com/iliyamo/blog-rest-api/internal/handler"
	"github.com/iliyamo/blog-rest-api/internal/queue"
	"github.com/iliyamo/blog-rest-api/internal/repository"
	"github.com/iliyamo/blog-rest-api/internal/router"
	"github.com/iliyamo/blog-rest-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTExpirationMS)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}

	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	authSvc := service.NewAuthService(users, codec, cfg.BcryptCost)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response caching disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Categories: handler.NewCategoryHandler(categories),
		Posts:      handler.NewPostHandler(posts, categories),
		Comments:   handler.NewCommentHandler(comments, posts),
	}, codec, users, config.LoadCacheConfig(), rdb)

	// Comment events are consumed in the background; the loop reconnects
	// on broker failures and never takes the server down.
	go func() {
		if err := queue.StartCommentConsumer(); err != nil {
			log.Printf("comment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
