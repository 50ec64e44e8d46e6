package config

import (
	"github.com/director74/pos-terminal/pkg/config"
)

// Config содержит конфигурацию POS терминала
type Config struct {
	HTTP       config.HTTPConfig
	Postgres   config.PostgresConfig
	RabbitMQ   config.RabbitMQConfig
	Services   ServicesConfig
	JWT        config.JWTConfig
	TerminalID string
}

// ServicesConfig содержит настройки внешних сервисов терминала
type ServicesConfig struct {
	PaymentURL string
	PrintURL   string
	CatalogURL string
}

func NewConfig() (*Config, error) {
	commonConfig := config.LoadCommonConfig("pos", "8080")
	jwtConfig := config.LoadJWTConfig("pos-terminal")
	servicesConfig := config.LoadServicesConfig()

	return &Config{
		HTTP:     commonConfig.HTTP,
		Postgres: commonConfig.Postgres,
		RabbitMQ: commonConfig.RabbitMQ,
		Services: ServicesConfig{
			PaymentURL: servicesConfig.PaymentURL,
			PrintURL:   servicesConfig.PrintURL,
			CatalogURL: servicesConfig.CatalogURL,
		},
		JWT:        *jwtConfig,
		TerminalID: config.GetEnv("POS_TERMINAL_ID", "terminal-1"),
	}, nil
}
