package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config - глобальная конфигурация бота. Заполняется из переменных
// окружения (.env подхватывается через godotenv/autoload в main).
type Config struct {
	Telegram      TelegramConfig
	CoinMarketCap CoinMarketCapConfig
	Poll          PollConfig
	LogLevel      string
}

type TelegramConfig struct {
	Token string
}

type CoinMarketCapConfig struct {
	Token   string
	APIURL  string
	Timeout time.Duration
}

type PollConfig struct {
	Interval time.Duration
}

// LoadConfig читает окружение поверх дефолтов.
// Отсутствие обязательных токенов - фатальная ошибка старта.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("coinmarketcap.api.url", "https://pro-api.coinmarketcap.com/v1/cryptocurrency/quotes/latest")
	v.SetDefault("coinmarketcap.timeout", 5*time.Second)
	v.SetDefault("poll.interval", 10*time.Second)
	v.SetDefault("log.level", "info")

	// "coinmarketcap.api.url" -> "COINMARKETCAP_API_URL"
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Telegram: TelegramConfig{
			Token: v.GetString("telegram.token"),
		},
		CoinMarketCap: CoinMarketCapConfig{
			Token:   v.GetString("coinmarketcap.token"),
			APIURL:  v.GetString("coinmarketcap.api.url"),
			Timeout: v.GetDuration("coinmarketcap.timeout"),
		},
		Poll: PollConfig{
			Interval: v.GetDuration("poll.interval"),
		},
		LogLevel: v.GetString("log.level"),
	}

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if cfg.CoinMarketCap.Token == "" {
		return nil, fmt.Errorf("COINMARKETCAP_TOKEN is not set")
	}

	return cfg, nil
}
