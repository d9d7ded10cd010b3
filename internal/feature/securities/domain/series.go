package domain

import (
	"wealth_backend/internal/feature/securities/domain/entity"
)

// ParseSeries はプロバイダから取得した生の時系列を、指定された証券IDと
// 時間足を付与した価格レコードに変換します。
//
// OHLCVのいずれかが欠けている行は破棄します（部分レコードは作りません）。
// タイムスタンプは全てUTCに正規化し、入力順を保持します。重複排除は
// 行わず、永続化層の一意制約に委ねます。
func ParseSeries(series entity.Series, securityID uint, interval string) []entity.Price {
	prices := make([]entity.Price, 0, len(series.Rows))

	for _, row := range series.Rows {
		if row.Open == nil || row.High == nil || row.Low == nil || row.Close == nil || row.Volume == nil {
			continue
		}

		prices = append(prices, entity.Price{
			SecurityID: securityID,
			Timestamp:  row.Time.UTC(),
			Open:       *row.Open,
			High:       *row.High,
			Low:        *row.Low,
			Close:      *row.Close,
			Volume:     *row.Volume,
			Interval:   interval,
		})
	}

	return prices
}
