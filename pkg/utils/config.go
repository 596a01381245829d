package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Gateway  GatewayConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type OTPConfig struct {
	Length int
	// FallbackCode is accepted without gateway verification. Empty disables it;
	// production deployments must leave it empty.
	FallbackCode string
}

type GatewayConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("OTP_FALLBACK_CODE", "123456")
	viper.SetDefault("OTP_GATEWAY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		OTP: OTPConfig{
			Length:       viper.GetInt("OTP_LENGTH"),
			FallbackCode: viper.GetString("OTP_FALLBACK_CODE"),
		},
		Gateway: GatewayConfig{
			BaseURL:        viper.GetString("OTP_GATEWAY_URL"),
			APIKey:         viper.GetString("OTP_GATEWAY_KEY"),
			TimeoutSeconds: viper.GetInt("OTP_GATEWAY_TIMEOUT_SECONDS"),
		},
	}

	return config, nil
}
