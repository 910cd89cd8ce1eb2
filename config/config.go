package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

// JWTConfig carries the signing secret and the validity windows for both
// token kinds. The secret is loaded once at startup and handed explicitly
// to the auth service; nothing reads it from a global afterwards.
type JWTConfig struct {
	SecretKey            string        `mapstructure:"secret_key"`
	AccessTokenValidity  time.Duration `mapstructure:"access_token_validity"`
	RefreshTokenValidity time.Duration `mapstructure:"refresh_token_validity"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT JWTConfig `mapstructure:"jwt"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_token_validity", "15m")
	viper.SetDefault("jwt.refresh_token_validity", "720h")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
