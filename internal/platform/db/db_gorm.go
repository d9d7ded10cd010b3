// Package db はデータベース接続とマイグレーションを管理します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	curentity "wealth_backend/internal/feature/currencies/domain/entity"
	secadapters "wealth_backend/internal/feature/securities/adapters"
)

// Config はデータベース接続の設定です。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// InstanceName はCloud SQLのUnixソケット接続名です。
	// 設定されている場合はHost/Portより優先されます。
	InstanceName string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN は設定からMySQLのDSN文字列を組み立てます。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// Opener はDSNからDB接続を開く関数です。テストで差し替え可能にします。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続に成功するまで3秒間隔でリトライします。
// timeout を超えた場合は最後のエラーを返します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB は環境変数の設定でMySQLへ接続します。
// RUN_MIGRATIONS=true の場合はマイグレーションと通貨シードを実行します。
// 接続できない場合はプロセスを終了します。
func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfigFromEnv())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := Migrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

// Migrate はスキーマのマイグレーションを実行し、通貨マスタが空であれば
// 主要通貨をシードします。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&secadapters.SecurityModel{},
		&secadapters.PriceModel{},
		&curentity.Currency{},
		&curentity.CurrencyRate{},
	); err != nil {
		return err
	}
	return seedCurrencies(db)
}

// seedCurrencies は空の通貨テーブルに取り扱い通貨を投入します。
func seedCurrencies(db *gorm.DB) error {
	var count int64
	if err := db.Model(&curentity.Currency{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	currencies := []curentity.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$", IsActive: true},
		{Code: "EUR", Name: "Euro", Symbol: "€", IsActive: true},
		{Code: "GBP", Name: "British Pound", Symbol: "£", IsActive: true},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", IsActive: true},
		{Code: "CHF", Name: "Swiss Franc", Symbol: "Fr", IsActive: true},
		{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", IsActive: true},
		{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", IsActive: true},
		{Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", IsActive: true},
		{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", IsActive: true},
		{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", IsActive: true},
		{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", IsActive: true},
		{Code: "SEK", Name: "Swedish Krona", Symbol: "kr", IsActive: true},
		{Code: "NOK", Name: "Norwegian Krone", Symbol: "kr", IsActive: true},
		{Code: "INR", Name: "Indian Rupee", Symbol: "₹", IsActive: true},
		{Code: "MXN", Name: "Mexican Peso", Symbol: "Mex$", IsActive: true},
		{Code: "BRL", Name: "Brazilian Real", Symbol: "R$", IsActive: true},
	}
	return db.Create(&currencies).Error
}
