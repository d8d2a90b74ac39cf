package main

import (
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"criaconecta_backend/internal/app/router"
	authadapters "criaconecta_backend/internal/feature/auth/adapters"
	authhandler "criaconecta_backend/internal/feature/auth/transport/handler"
	authusecase "criaconecta_backend/internal/feature/auth/usecase"
	briefingadapters "criaconecta_backend/internal/feature/briefing/adapters"
	briefinghandler "criaconecta_backend/internal/feature/briefing/transport/handler"
	briefingusecase "criaconecta_backend/internal/feature/briefing/usecase"
	"criaconecta_backend/internal/platform/cache"
	platformdb "criaconecta_backend/internal/platform/db"
	"criaconecta_backend/internal/platform/externalapi/mercadopago"
	platformhttp "criaconecta_backend/internal/platform/http"
	jwtmw "criaconecta_backend/internal/platform/jwt"
	platformredis "criaconecta_backend/internal/platform/redis"
	"criaconecta_backend/internal/shared/ratelimiter"
)

func main() {
	// db
	db := platformdb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
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

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	briefingRepo := briefingadapters.NewBriefingMySQL(db)

	// Redisキャッシュでラップ（公開中一覧のみ）
	cachedBriefingRepo := cache.NewCachingBriefingRepository(rdb, time.Minute, briefingRepo, "briefings")

	// 決済ゲートウェイ
	mpCfg := mercadopago.LoadConfig()
	mpClient := platformhttp.NewHTTPClient(mpCfg.Timeout)
	mpLimiter := ratelimiter.NewRateLimiter(60, time.Minute)
	gateway := mercadopago.NewGateway(mpCfg, mpClient, mpLimiter)

	// Usecase
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtGen)
	briefingUC := briefingusecase.NewBriefingUsecase(cachedBriefingRepo, userRepo, userRepo, gateway, mpCfg.BackURL)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	briefingH := briefinghandler.NewBriefingHandler(briefingUC)

	// ルータ生成
	router := router.NewRouter(authH, briefingH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	if mpCfg.AccessToken == "" {
		log.Println("[WARN] MP_ACCESS_TOKEN is not set. Checkout creation will fail.")
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
