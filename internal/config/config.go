package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort           int    `mapstructure:"APP_PORT"`
	DataPath          string `mapstructure:"DATA_PATH"`
	APIHost           string `mapstructure:"API_HOST"`
	DefaultModelID    string `mapstructure:"DEFAULT_MODEL_ID"`
	DefaultModelClass string `mapstructure:"DEFAULT_MODEL_CLASS"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	StreamStepDelayMS int    `mapstructure:"STREAM_STEP_DELAY"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8866)
	viper.SetDefault("DATA_PATH", "./data/whuchat.db")
	viper.SetDefault("API_HOST", "localhost:8866")
	viper.SetDefault("DEFAULT_MODEL_ID", "claude-3-haiku")
	viper.SetDefault("DEFAULT_MODEL_CLASS", "anthropic")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("STREAM_STEP_DELAY", 500)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
