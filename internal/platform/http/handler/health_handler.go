// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health は死活監視用の /healthz エンドポイントを処理します。
// ロードバランサのHEADプローブにもボディなしで応答します。
func Health(c *gin.Context) {
	// 監視系が古い応答を再利用しないようキャッシュを無効化
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
