package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"wealth_backend/internal/app/di"
	"wealth_backend/internal/app/router"
	curhandler "wealth_backend/internal/feature/currencies/transport/handler"
	sechandler "wealth_backend/internal/feature/securities/transport/handler"
	infradb "wealth_backend/internal/platform/db"
	infraredis "wealth_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Usecase
	syncUC := di.NewSyncEngine(db, rdb)
	pricesUC := di.NewPricesUsecase(db)
	ratesUC := di.NewRatesUsecase(db)
	rateSyncUC := di.NewRateSyncEngine(db)

	// Handler
	secH := sechandler.NewSecurityHandler(syncUC, pricesUC)
	curH := curhandler.NewCurrencyHandler(ratesUC, rateSyncUC)

	// ルータ生成
	r := router.NewRouter(secH, curH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
