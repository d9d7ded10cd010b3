// Package handler はsecuritiesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/domain/entity"
	"wealth_backend/internal/feature/securities/usecase"
)

// SyncUsecase は証券同期操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SyncUsecase interface {
	Sync(ctx context.Context, symbol string, checkConcurrent bool) (usecase.SyncOutcome, error)
	ResetPrices(ctx context.Context, ref domain.SecurityRef, interval string) error
}

// PricesUsecase は価格照会操作のユースケースインターフェースを定義します。
type PricesUsecase interface {
	GetPrices(ctx context.Context, ref domain.SecurityRef, start, end *time.Time, interval string) (usecase.PriceRangeResult, error)
}

// SecurityHandler は証券データのHTTPリクエストを処理します。
type SecurityHandler struct {
	sync   SyncUsecase
	prices PricesUsecase
}

// NewSecurityHandler は指定されたusecaseでSecurityHandlerの新しいインスタンスを生成します。
func NewSecurityHandler(sync SyncUsecase, prices PricesUsecase) *SecurityHandler {
	return &SecurityHandler{sync: sync, prices: prices}
}

// SyncHandler は銘柄のメタデータと価格履歴を外部プロバイダから同期します。
//
// エンドポイント例:
// POST /securities/:symbol/sync?check_concurrent=true
func (h *SecurityHandler) SyncHandler(c *gin.Context) {
	symbol := c.Param("symbol")
	checkConcurrent := c.DefaultQuery("check_concurrent", "true") != "false"

	outcome, err := h.sync.Sync(c.Request.Context(), symbol, checkConcurrent)
	if err != nil {
		status := syncErrorStatus(err)
		c.JSON(status, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp := api.SyncResponse{
		Security:     toSecurityResponse(outcome.Security),
		PricesSynced: outcome.Total(),
		Daily:        outcome.DailySynced,
		Intraday:     outcome.IntradaySynced,
	}
	// 片系列の失敗は同期全体の失敗ではなく、警告として返します。
	if outcome.DailyErr != nil {
		resp.Warnings = append(resp.Warnings, "daily: "+outcome.DailyErr.Error())
	}
	if outcome.IntradayErr != nil {
		resp.Warnings = append(resp.Warnings, "intraday: "+outcome.IntradayErr.Error())
	}

	c.JSON(http.StatusOK, resp)
}

// GetPricesHandler は保存済みの価格履歴を完全性の評価付きで返します。
//
// エンドポイント例:
// GET /securities/:symbol/prices?interval=1d&start=2024-01-01T00:00:00Z&end=2024-03-01T00:00:00Z
func (h *SecurityHandler) GetPricesHandler(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.DefaultQuery("interval", entity.IntervalDaily)

	start, ok := parseTimeQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		return
	}

	result, err := h.prices.GetPrices(c.Request.Context(), domain.BySymbol(symbol), start, end, interval)
	if err != nil {
		if errors.Is(err, domain.ErrSecurityNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	prices := make([]api.PriceResponse, 0, len(result.Prices))
	for _, p := range result.Prices {
		prices = append(prices, api.PriceResponse{
			Time:   p.Timestamp.UTC().Format(time.RFC3339),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}

	c.JSON(http.StatusOK, api.PriceRangeResponse{
		Symbol:       result.Security.Symbol,
		Interval:     result.Interval,
		Start:        result.Start.Format(time.RFC3339),
		End:          result.End.Format(time.RFC3339),
		Completeness: string(result.Completeness),
		Expected:     result.Expected,
		Actual:       result.Actual,
		Widened:      result.Widened,
		Prices:       prices,
	})
}

// ResetPricesHandler は指定銘柄・時間足の価格履歴を削除します。
// 次回の同期で履歴が取り直されます。
//
// エンドポイント例:
// DELETE /securities/:symbol/prices?interval=1d
func (h *SecurityHandler) ResetPricesHandler(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.DefaultQuery("interval", entity.IntervalDaily)

	err := h.sync.ResetPrices(c.Request.Context(), domain.BySymbol(symbol), interval)
	if err != nil {
		if errors.Is(err, domain.ErrSecurityNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSymbolNotFound), errors.Is(err, domain.ErrSecurityNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseTimeQuery はRFC3339のクエリパラメータを解析します。
// 不正な値の場合は400を書き込み、okにfalseを返します。
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name + ": must be RFC3339"})
		return nil, false
	}
	return &t, true
}

func toSecurityResponse(s entity.Security) api.SecurityResponse {
	resp := api.SecurityResponse{
		ID:           s.ID,
		Symbol:       s.Symbol,
		Name:         s.Name,
		Exchange:     s.Exchange,
		Currency:     s.Currency,
		SecurityType: s.SecurityType,
		Sector:       s.Sector,
		Industry:     s.Industry,
		MarketCap:    s.MarketCap,
		IsSyncing:    s.IsSyncing,
	}
	if s.LastSyncedAt != nil {
		formatted := s.LastSyncedAt.UTC().Format(time.RFC3339)
		resp.LastSyncedAt = &formatted
	}
	return resp
}
