package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	curusecase "wealth_backend/internal/feature/currencies/usecase"
	"wealth_backend/internal/feature/securities/domain"
	"wealth_backend/internal/feature/securities/domain/entity"
	"wealth_backend/internal/feature/securities/usecase"
	"wealth_backend/internal/platform/externalapi/yahoo/dto"
)

var (
	_ usecase.MarketRepository = (*YahooMarket)(nil)
	_ curusecase.FxRepository  = (*YahooMarket)(nil)
)

// YahooMarket はYahoo Finance外部APIから証券メタデータ・価格時系列・
// 為替レートを取得するMarketRepository実装です。
//
// プロバイダ固有の失敗は2種類のドメインエラーに変換します:
// 銘柄が存在しない場合は domain.ErrSymbolNotFound、
// タイムアウト・5xx・不正なペイロードは domain.ErrProviderUnavailable。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの
// 新しいインスタンスを生成します。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// FetchMetadata はquoteSummaryエンドポイントから銘柄のメタデータを取得します。
// 全てのフィールドは欠損し得るためオプショナルとして返します。
func (y *YahooMarket) FetchMetadata(ctx context.Context, symbol string) (entity.SecurityMeta, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price%%2CassetProfile", y.cfg.BaseURL, url.PathEscape(symbol))

	var body dto.QuoteSummaryResponse
	if err := y.getJSON(ctx, u, &body); err != nil {
		return entity.SecurityMeta{}, fmt.Errorf("%s: %w", symbol, err)
	}

	if apiErr := body.QuoteSummary.Error; apiErr != nil {
		return entity.SecurityMeta{}, fmt.Errorf("%s: %s: %w", symbol, apiErr.Description, classify(apiErr))
	}
	if len(body.QuoteSummary.Result) == 0 {
		return entity.SecurityMeta{}, fmt.Errorf("%s: %w", symbol, domain.ErrSymbolNotFound)
	}

	r := body.QuoteSummary.Result[0]
	meta := entity.SecurityMeta{
		Exchange:     r.Price.ExchangeName,
		Currency:     r.Price.Currency,
		SecurityType: r.Price.QuoteType,
		Sector:       r.AssetProfile.Sector,
		Industry:     r.AssetProfile.Industry,
	}
	// 表示名はlongName優先、なければshortName
	if r.Price.LongName != nil {
		meta.Name = r.Price.LongName
	} else {
		meta.Name = r.Price.ShortName
	}
	if r.Price.MarketCap != nil {
		meta.MarketCap = &r.Price.MarketCap.Raw
	}
	return meta, nil
}

// FetchSeries はchartエンドポイントから時系列価格データを取得し、
// 生の時系列（entity.Series）として返します。
//
// 有効な銘柄に対する空の結果は成功として空のSeriesを返します。
// プロバイダが明示的に「データなし」を通知した場合のみ
// domain.ErrSymbolNotFound になります。
func (y *YahooMarket) FetchSeries(ctx context.Context, symbol, period, interval string) (entity.Series, error) {
	q := url.Values{}
	q.Set("range", period)
	q.Set("interval", interval)

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())
	return y.fetchChart(ctx, u, symbol, interval)
}

// FetchFxSeries はchartエンドポイントから通貨ペアの為替レート時系列を
// 日足で取得します。pairは "USDEUR=X" 形式のペアシンボルです。
func (y *YahooMarket) FetchFxSeries(ctx context.Context, pair string, start, end time.Time) (entity.Series, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", entity.IntervalDaily)

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(pair), q.Encode())
	return y.fetchChart(ctx, u, pair, entity.IntervalDaily)
}

// fetchChart はchartレスポンスを取得してSeriesに変換します。
func (y *YahooMarket) fetchChart(ctx context.Context, u, symbol, interval string) (entity.Series, error) {
	var body dto.ChartResponse
	if err := y.getJSON(ctx, u, &body); err != nil {
		return entity.Series{}, fmt.Errorf("%s: %w", symbol, err)
	}

	if apiErr := body.Chart.Error; apiErr != nil {
		return entity.Series{}, fmt.Errorf("%s: %s: %w", symbol, apiErr.Description, classify(apiErr))
	}
	if len(body.Chart.Result) == 0 {
		// エラーも結果もない場合はデータなしの成功扱い
		return entity.Series{Symbol: symbol, Interval: interval}, nil
	}

	r := body.Chart.Result[0]
	series := entity.Series{Symbol: symbol, Interval: interval}
	if len(r.Indicators.Quote) == 0 {
		return series, nil
	}

	quote := r.Indicators.Quote[0]
	series.Rows = make([]entity.SeriesRow, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		row := entity.SeriesRow{Time: time.Unix(ts, 0).UTC()}
		if i < len(quote.Open) {
			row.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			row.High = quote.High[i]
		}
		if i < len(quote.Low) {
			row.Low = quote.Low[i]
		}
		if i < len(quote.Close) {
			row.Close = quote.Close[i]
		}
		if i < len(quote.Volume) {
			row.Volume = quote.Volume[i]
		}
		series.Rows = append(series.Rows, row)
	}
	return series, nil
}

// getJSON はGETリクエストを実行し、JSONレスポンスをoutにデコードします。
// ネットワーク障害・タイムアウト・5xx・デコード失敗は
// domain.ErrProviderUnavailable に変換します。
func (y *YahooMarket) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)

	res, err := y.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// タイムアウトを含むネットワーク障害
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	// 404はボディ内のエラーオブジェクトで詳細が通知されるためデコードを試みる
	if res.StatusCode >= 400 && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: http %d", domain.ErrProviderUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrProviderUnavailable, err)
	}
	return nil
}

// classify はYahooのエラーコードをドメインエラーに対応付けます。
func classify(apiErr *dto.APIError) error {
	if apiErr.Code == "Not Found" {
		return domain.ErrSymbolNotFound
	}
	return domain.ErrProviderUnavailable
}
