package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	AI struct {
		Provider       string  `mapstructure:"provider"`
		OpenAIModel    string  `mapstructure:"openaiModel"`
		AnthropicModel string  `mapstructure:"anthropicModel"`
		GeminiModel    string  `mapstructure:"geminiModel"`
		Temperature    float64 `mapstructure:"temperature"`
	} `mapstructure:"ai"`
	Fetcher struct {
		Timeout   time.Duration `mapstructure:"timeout"`
		MaxBytes  int64         `mapstructure:"maxBytes"`
		MaxChars  int           `mapstructure:"maxChars"`
		UserAgent string        `mapstructure:"userAgent"`
	} `mapstructure:"fetcher"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Env vars override file values (AI_PROVIDER selects the LLM backend).
	v.AutomaticEnv()
	_ = v.BindEnv("ai.provider", "AI_PROVIDER")
	_ = v.BindEnv("repositories.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("repositories.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("repositories.postgres.username", "POSTGRES_USER")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("repositories.postgres.db", "POSTGRES_DB")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
