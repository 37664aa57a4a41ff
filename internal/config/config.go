package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Lottery  LotteryConfig
	Payment  PaymentConfig
	GeoIP    GeoIPConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// StorageConfig selects the repository driver: "memory" (default) or
// "mongodb".
type StorageConfig struct {
	Driver string
}

// MongoDBConfig holds MongoDB-specific configuration, used only with the
// mongodb storage driver.
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration.
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// LotteryConfig holds the game economics and scheduling knobs.
type LotteryConfig struct {
	TicketPrice        float64
	PayoutRate         float64
	ReservePercentage  float64
	JackpotFloor       float64
	JackpotCap         float64
	SalesCutoffMinutes int
	DrawHour           int
	DrawSchedule       string // cron spec for the drawing check
}

// PaymentConfig holds the payout/house-revenue gateway configuration.
type PaymentConfig struct {
	BaseURL string
	APIKey  string
	Mock    bool
}

// GeoIPConfig holds the IP-to-country lookup configuration.
type GeoIPConfig struct {
	BaseURL string
	APIKey  string
	Mock    bool
}

// Load loads configuration from config files and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, environment variables take over.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("Storage.Driver", "memory")
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "worldlotto")
	viper.SetDefault("JWT.Secret", "change-me")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Lottery.TicketPrice", 2.0)
	viper.SetDefault("Lottery.PayoutRate", 0.5)
	viper.SetDefault("Lottery.ReservePercentage", 0.05)
	viper.SetDefault("Lottery.JackpotFloor", 1000000.0)
	viper.SetDefault("Lottery.JackpotCap", 1e11)
	viper.SetDefault("Lottery.SalesCutoffMinutes", 60)
	viper.SetDefault("Lottery.DrawHour", 20)
	viper.SetDefault("Lottery.DrawSchedule", "*/5 * * * *")
	viper.SetDefault("Payment.Mock", true)
	viper.SetDefault("GeoIP.Mock", true)
	viper.SetDefault("LogLevel", "info")
}
