// Package entity defines the domain models for the currencies feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a currency known to the system. Currencies are
// pre-seeded and managed administratively; the rate sync engine never
// creates them implicitly.
type Currency struct {
	Code      string    `gorm:"size:3;primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Symbol    string    `gorm:"size:8;not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the GORM default table name.
func (Currency) TableName() string {
	return "currencies"
}

// CurrencyRate represents the conversion rate between two currencies on a
// specific date. (FromCode, ToCode, Date) is unique; rows are immutable per
// date and retained indefinitely for point-in-time lookups.
type CurrencyRate struct {
	ID       uint            `gorm:"primaryKey"`
	FromCode string          `gorm:"size:3;not null;uniqueIndex:rate_from_to_date,priority:1"`
	ToCode   string          `gorm:"size:3;not null;uniqueIndex:rate_from_to_date,priority:2"`
	Rate     decimal.Decimal `gorm:"type:decimal(24,10);not null"`
	Date     time.Time       `gorm:"type:date;not null;uniqueIndex:rate_from_to_date,priority:3"`
}

// TableName overrides the GORM default table name.
func (CurrencyRate) TableName() string {
	return "currency_rates"
}
