package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	JWTUserSecret string `env:"JWT_USER_SECRET"`
	PixAPIBaseURL string `env:"PIX_API_BASE_URL"`
	PixAPIToken   string `env:"PIX_API_TOKEN"`
	// CreditPrice - цена одного кредита в валюте оплаты (строкой, чтобы не терять точность).
	CreditPrice string `env:"CREDIT_PRICE"`
	// MinRechargeAmount - минимальная сумма одного пополнения.
	MinRechargeAmount string `env:"MIN_RECHARGE_AMOUNT"`
}

func LoadConfig() (*Config, error) {
	// .env опционален, локальное удобство. В проде переменные приходят из окружения.
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("JWT user secret is not set")
	}
	if conf.PixAPIBaseURL == "" || conf.PixAPIToken == "" {
		return nil, errors.New("PIX API credentials are not set")
	}
	if _, priceErr := decimal.NewFromString(conf.CreditPrice); priceErr != nil {
		return nil, fmt.Errorf("invalid credit price %q: %s", conf.CreditPrice, priceErr.Error())
	}
	if _, minErr := decimal.NewFromString(conf.MinRechargeAmount); minErr != nil {
		return nil, fmt.Errorf("invalid min recharge amount %q: %s", conf.MinRechargeAmount, minErr.Error())
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

// CreditPriceDecimal возвращает цену кредита. Валидность строки проверена в LoadConfig.
func (c *Config) CreditPriceDecimal() decimal.Decimal {
	price, _ := decimal.NewFromString(c.CreditPrice)
	return price
}

// MinRechargeAmountDecimal возвращает минимальную сумму пополнения.
func (c *Config) MinRechargeAmountDecimal() decimal.Decimal {
	minAmount, _ := decimal.NewFromString(c.MinRechargeAmount)
	return minAmount
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.PixAPIBaseURL, "p", "", "PIX provider API base URL")
	flag.StringVar(&flagConfig.CreditPrice, "price", "1", "Price of a single credit")
	flag.StringVar(&flagConfig.MinRechargeAmount, "min", "5", "Minimum recharge amount")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:        defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:       defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:     defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret:     envConfig.JWTUserSecret,
		PixAPIBaseURL:     defaultIfBlank(envConfig.PixAPIBaseURL, flagsConfig.PixAPIBaseURL),
		PixAPIToken:       envConfig.PixAPIToken,
		CreditPrice:       defaultIfBlank(envConfig.CreditPrice, flagsConfig.CreditPrice),
		MinRechargeAmount: defaultIfBlank(envConfig.MinRechargeAmount, flagsConfig.MinRechargeAmount),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
