package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/database"
	"github.com/iliyamo/todo-list-api/internal/handler"
	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/router"
	queue_publisher "github.com/iliyamo/todo-list-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs the logout denylist and the per-user list cache. A nil
	// client disables both and the API keeps working statelessly.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; token denylist and list cache disabled")
	}
	denylist := repository.NewTokenDenylist(rdb)
	cache := middleware.NewUserCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	items := repository.NewItemRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, denylist)
	itemHandler := handler.NewItemHandler(items, cache)

	e := echo.New()
	// Credentialed cross-origin access is restricted to a single origin;
	// the Authorization header is exposed to browser scripts.
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderAuthorization},
	}))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterItems(e, itemHandler, cfg.JWTSecret, denylist, cache)

	if url := queue_publisher.BrokerURL(); url != "" {
		go queue.StartActivityConsumer(url)
	} else {
		log.Println("no broker configured; item activity events disabled")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
