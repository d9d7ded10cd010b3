// Package handler はcurrenciesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/currencies/domain"
	"wealth_backend/internal/feature/currencies/domain/entity"
)

// RatesUsecase は為替レート参照のユースケースインターフェースを定義します。
type RatesUsecase interface {
	ListCurrencies(ctx context.Context) ([]entity.Currency, error)
	GetRate(ctx context.Context, from, to string, date *time.Time) (entity.CurrencyRate, error)
}

// RateSyncUsecase は為替レート同期のユースケースインターフェースを定義します。
type RateSyncUsecase interface {
	SyncRates(ctx context.Context, base string, asOf *time.Time) (synced, failed int)
}

// CurrencyHandler は通貨と為替レートのHTTPリクエストを処理します。
type CurrencyHandler struct {
	rates    RatesUsecase
	rateSync RateSyncUsecase
}

// NewCurrencyHandler は指定されたusecaseでCurrencyHandlerの新しいインスタンスを生成します。
func NewCurrencyHandler(rates RatesUsecase, rateSync RateSyncUsecase) *CurrencyHandler {
	return &CurrencyHandler{rates: rates, rateSync: rateSync}
}

// ListHandler は利用可能な通貨の一覧を返します。
//
// エンドポイント例:
// GET /currencies
func (h *CurrencyHandler) ListHandler(c *gin.Context) {
	currencies, err := h.rates.ListCurrencies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]api.CurrencyResponse, 0, len(currencies))
	for _, cur := range currencies {
		out = append(out, api.CurrencyResponse{Code: cur.Code, Name: cur.Name, Symbol: cur.Symbol})
	}
	c.JSON(http.StatusOK, out)
}

// GetRateHandler は2通貨間の指定日時点のレートを返します。
//
// エンドポイント例:
// GET /currencies/rate?from=USD&to=EUR&date=2024-03-15
func (h *CurrencyHandler) GetRateHandler(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "from and to are required"})
		return
	}

	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	rate, err := h.rates.GetRate(c.Request.Context(), from, to, date)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrCurrencyNotFound) || errors.Is(err, domain.ErrRateNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.RateResponse{
		From: rate.FromCode,
		To:   rate.ToCode,
		Rate: rate.Rate.String(),
		Date: rate.Date.Format("2006-01-02"),
	})
}

// SyncRatesHandler は基軸通貨に対する主要通貨のレートを同期します。
// 同期できなかったレートは件数として報告され、エラーにはなりません。
//
// エンドポイント例:
// POST /currencies/sync?base=USD&date=2024-03-15
func (h *CurrencyHandler) SyncRatesHandler(c *gin.Context) {
	base := c.DefaultQuery("base", "USD")

	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	synced, failed := h.rateSync.SyncRates(c.Request.Context(), base, date)
	c.JSON(http.StatusOK, api.RateSyncResponse{Base: base, Synced: synced, Failed: failed})
}

// parseDateQuery は YYYY-MM-DD 形式のクエリパラメータを解析します。
// 不正な値の場合は400を書き込み、okにfalseを返します。
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name + ": must be YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}
