package domain

import (
	"testing"
	"time"

	"wealth_backend/internal/feature/securities/domain/entity"
)

// TestPolicy_Classify は完全性ラベルの判定を境界値を含めて検証します。
func TestPolicy_Classify(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	testCases := []struct {
		name     string
		actual   int
		expected int
		hasData  bool
		want     Completeness
	}{
		{name: "90/100 is complete", actual: 90, expected: 100, hasData: true, want: CompletenessComplete},
		{name: "exactly at complete threshold", actual: 80, expected: 100, hasData: true, want: CompletenessComplete},
		{name: "50/100 is partial", actual: 50, expected: 100, hasData: true, want: CompletenessPartial},
		{name: "exactly at partial threshold", actual: 40, expected: 100, hasData: true, want: CompletenessPartial},
		{name: "10/100 is sparse", actual: 10, expected: 100, hasData: true, want: CompletenessSparse},
		{name: "no data in range is partial", actual: 0, expected: 100, hasData: false, want: CompletenessPartial},
		{name: "zero expected is complete", actual: 5, expected: 0, hasData: true, want: CompletenessComplete},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := p.Classify(tc.actual, tc.expected, tc.hasData)
			if got != tc.want {
				t.Errorf("Classify(%d, %d, %v) = %q, want %q", tc.actual, tc.expected, tc.hasData, got, tc.want)
			}
		})
	}
}

// TestPolicy_DateRange_Defaults は未指定時のデフォルト範囲選択を検証します。
func TestPolicy_DateRange_Defaults(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	testCases := []struct {
		name     string
		interval string
		wantSpan time.Duration
	}{
		{name: "minute interval defaults to 1 day", interval: entity.IntervalMinute, wantSpan: 24 * time.Hour},
		{name: "daily interval defaults to 30 days", interval: entity.IntervalDaily, wantSpan: 30 * 24 * time.Hour},
		{name: "weekly interval defaults to 30 days", interval: entity.IntervalWeekly, wantSpan: 30 * 24 * time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			before := time.Now().UTC()
			start, end := p.DateRange(nil, nil, tc.interval)
			after := time.Now().UTC()

			if end.Before(before) || end.After(after) {
				t.Errorf("end = %v, want now (between %v and %v)", end, before, after)
			}
			if got := end.Sub(start); got != tc.wantSpan {
				t.Errorf("span = %v, want %v", got, tc.wantSpan)
			}
			if end.Location() != time.UTC {
				t.Errorf("end location = %v, want UTC", end.Location())
			}
		})
	}
}

// TestPolicy_DateRange_ExplicitBounds は呼び出し側が指定した日時が
// UTCに正規化されてそのまま使われることを検証します。
func TestPolicy_DateRange_ExplicitBounds(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	jst := time.FixedZone("JST", 9*60*60)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, jst)
	end := time.Date(2024, 3, 10, 9, 0, 0, 0, jst)

	gotStart, gotEnd := p.DateRange(&start, &end, entity.IntervalDaily)

	if !gotStart.Equal(start) || gotStart.Location() != time.UTC {
		t.Errorf("start = %v, want %v in UTC", gotStart, start.UTC())
	}
	if !gotEnd.Equal(end) || gotEnd.Location() != time.UTC {
		t.Errorf("end = %v, want %v in UTC", gotEnd, end.UTC())
	}
}

// TestPolicy_Widen は範囲がバッファ日数だけ前後に広がることを検証します。
func TestPolicy_Widen(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	gotStart, gotEnd := p.Widen(start, end)

	if want := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC); !gotStart.Equal(want) {
		t.Errorf("widened start = %v, want %v", gotStart, want)
	}
	if want := time.Date(2024, 1, 27, 0, 0, 0, 0, time.UTC); !gotEnd.Equal(want) {
		t.Errorf("widened end = %v, want %v", gotEnd, want)
	}
}

// TestPolicy_ExpectedSamples は時間足ごとの期待サンプル数の見積もりを検証します。
func TestPolicy_ExpectedSamples(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		end      time.Time
		interval string
		want     int
	}{
		{name: "daily over 14 days", end: start.AddDate(0, 0, 14), interval: entity.IntervalDaily, want: 10},
		{name: "weekly over 28 days", end: start.AddDate(0, 0, 28), interval: entity.IntervalWeekly, want: 4},
		{name: "hourly over 2 days", end: start.AddDate(0, 0, 2), interval: entity.IntervalHourly, want: 13},
		{name: "minute over 1 day", end: start.AddDate(0, 0, 1), interval: entity.IntervalMinute, want: 390},
		{name: "minimum is 1", end: start, interval: entity.IntervalDaily, want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := p.ExpectedSamples(start, tc.end, tc.interval); got != tc.want {
				t.Errorf("ExpectedSamples = %d, want %d", got, tc.want)
			}
		})
	}
}
