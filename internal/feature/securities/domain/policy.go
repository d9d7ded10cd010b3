package domain

import (
	"time"

	"wealth_backend/internal/feature/securities/domain/entity"
)

// Completeness は要求された期間に対して実際に取得できたデータ量の質的ラベルです。
type Completeness string

const (
	// CompletenessComplete は期待されるデータ点のほぼ全てが存在することを示します。
	CompletenessComplete Completeness = "complete"
	// CompletenessPartial は一部のデータが欠けている、または範囲外にのみ存在することを示します。
	CompletenessPartial Completeness = "partial"
	// CompletenessSparse はデータが著しく不足していることを示します。
	CompletenessSparse Completeness = "sparse"
	// CompletenessEmpty はバッファを広げて探してもデータが全く
	// 存在しないことを示します。読み取り経路でのみ使用されます。
	CompletenessEmpty Completeness = "empty"
)

// 取引カレンダーの前提値。期待サンプル数の見積もりに使用します。
const (
	tradingDaysPerWeek   = 5
	tradingHoursPerDay   = 6.5
	tradingMinutesPerDay = 390
)

// Policy は価格データの範囲選択と完全性判定のポリシー定数を保持します。
// 閾値はロジックに埋め込まず、設定可能な値としてここに集約します。
type Policy struct {
	CompleteThreshold    float64       // この比率以上なら complete
	PartialThreshold     float64       // この比率以上なら partial、未満なら sparse
	SearchBufferDays     int           // Widen で前後に広げる日数
	DefaultIntradayRange time.Duration // 分足のデフォルト遡及期間
	DefaultRange         time.Duration // その他の時間足のデフォルト遡及期間
}

// DefaultPolicy は標準のポリシー値を返します。
func DefaultPolicy() Policy {
	return Policy{
		CompleteThreshold:    0.8,
		PartialThreshold:     0.4,
		SearchBufferDays:     7,
		DefaultIntradayRange: 24 * time.Hour,
		DefaultRange:         30 * 24 * time.Hour,
	}
}

// DateRange は開始・終了日時を正規化し、未指定の場合はデフォルト値を設定します。
//
// end 未指定時は現在時刻（UTC）。start 未指定時は分足なら1日前、
// それ以外は30日前。タイムゾーンなしの日時はUTCとして扱います。
func (p Policy) DateRange(start, end *time.Time, interval string) (time.Time, time.Time) {
	now := time.Now().UTC()

	var rangeEnd time.Time
	if end == nil {
		rangeEnd = now
	} else {
		rangeEnd = end.UTC()
	}

	var rangeStart time.Time
	switch {
	case start == nil && interval == entity.IntervalMinute:
		rangeStart = now.Add(-p.DefaultIntradayRange)
	case start == nil:
		rangeStart = now.Add(-p.DefaultRange)
	default:
		rangeStart = start.UTC()
	}

	return rangeStart, rangeEnd
}

// Widen は範囲を前後 SearchBufferDays 日ずつ広げます。
// 週末や休場日でちょうど境界の外にあるデータを探すために使用します。
func (p Policy) Widen(start, end time.Time) (time.Time, time.Time) {
	buffer := time.Duration(p.SearchBufferDays) * 24 * time.Hour
	return start.Add(-buffer), end.Add(buffer)
}

// ExpectedSamples は取引カレンダーの前提に基づき、期間と時間足から
// 期待されるデータ点数を見積もります。最小値は1です。
func (p Policy) ExpectedSamples(start, end time.Time, interval string) int {
	days := int(end.Sub(start).Hours() / 24)

	var expected int
	switch interval {
	case entity.IntervalDaily:
		expected = days * tradingDaysPerWeek / 7
	case entity.IntervalWeekly:
		expected = days / 7
	case entity.IntervalHourly:
		expected = int(float64(days) * tradingHoursPerDay)
	default: // 分足
		expected = days * tradingMinutesPerDay
	}

	if expected < 1 {
		return 1
	}
	return expected
}

// Classify は実際の取得件数と期待件数から完全性ラベルを決定します。
//
// 要求範囲内にデータが全く存在しない場合は partial を返します
// （データは範囲のすぐ外に存在する可能性があるため）。
func (p Policy) Classify(actual, expected int, hasDataInRange bool) Completeness {
	if !hasDataInRange {
		return CompletenessPartial
	}
	if expected == 0 {
		return CompletenessComplete
	}

	ratio := float64(actual) / float64(expected)
	switch {
	case ratio >= p.CompleteThreshold:
		return CompletenessComplete
	case ratio >= p.PartialThreshold:
		return CompletenessPartial
	default:
		return CompletenessSparse
	}
}
