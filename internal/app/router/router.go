// Package router はHTTPルーティングを定義します。
package router

import (
	"github.com/gin-gonic/gin"

	curhandler "wealth_backend/internal/feature/currencies/transport/handler"
	sechandler "wealth_backend/internal/feature/securities/transport/handler"
	"wealth_backend/internal/platform/http/handler"
)

// NewRouter は全エンドポイントを登録したginエンジンを返します。
func NewRouter(securities *sechandler.SecurityHandler, currencies *curhandler.CurrencyHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	sec := r.Group("/securities")
	{
		// 外部プロバイダからのオンデマンド同期
		sec.POST("/:symbol/sync", securities.SyncHandler)
		// 保存済み価格履歴の照会（完全性評価付き）
		sec.GET("/:symbol/prices", securities.GetPricesHandler)
		// 価格履歴のリセット（次回同期で取り直し）
		sec.DELETE("/:symbol/prices", securities.ResetPricesHandler)
	}

	cur := r.Group("/currencies")
	{
		cur.GET("", currencies.ListHandler)
		cur.GET("/rate", currencies.GetRateHandler)
		cur.POST("/rates/sync", currencies.SyncRatesHandler)
	}

	return r
}
