package router

import (
	authhandler "criaconecta_backend/internal/feature/auth/transport/handler"
	briefinghandler "criaconecta_backend/internal/feature/briefing/transport/handler"
	"criaconecta_backend/internal/platform/http/handler"
	jwtmw "criaconecta_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

func NewRouter(authHandler *authhandler.AuthHandler, briefings *briefinghandler.BriefingHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)
	// 公開プロフィール
	r.GET("/users/:id", authHandler.Profile)
	// 公開中のブリーフィング一覧（トップページ相当）
	r.GET("/briefings", briefings.ListOpen)
	// 決済プロバイダからの戻り（リダイレクト型コールバック）
	// プロバイダが直接叩くため認証は掛けられない
	r.GET("/payments/feedback", briefings.PaymentFeedback)
	// 決済プロバイダからのwebhook通知
	r.POST("/payments/webhook", briefings.PaymentWebhook)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired())
	{
		auth.POST("/briefings", briefings.Create)
		auth.POST("/briefings/:id/checkout", briefings.Checkout)
		auth.GET("/dashboard/briefings", briefings.Dashboard)
	}

	return r
}
