package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	AI          AIConfig          `mapstructure:"ai"`
	Images      ImagesConfig      `mapstructure:"images"`
	Application ApplicationConfig `mapstructure:"application"`
}

type ApplicationConfig struct {
	Name      string        `mapstructure:"name"`
	Version   string        `mapstructure:"version"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Theme     string        `mapstructure:"theme"`
	ThemesDir string        `mapstructure:"themes_dir"`
	Storage   StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Exports    string `mapstructure:"exports"`
	Thumbnails string `mapstructure:"thumbnails"`
}

type AIConfig struct {
	ActiveProvider string                      `mapstructure:"active_provider"`
	Providers      map[string]ProviderSettings `mapstructure:"providers"`
}

type ProviderSettings struct {
	Driver         string  `mapstructure:"driver"` // gemini, openai
	Key            string  `mapstructure:"key"`
	Endpoint       string  `mapstructure:"endpoint"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// Active returns the settings of the selected AI provider.
func (c *AIConfig) Active() ProviderSettings {
	return c.Providers[c.ActiveProvider]
}

type ImagesConfig struct {
	GenerativeEndpoint string `mapstructure:"generative_endpoint"`
	GenerativeKey      string `mapstructure:"generative_key"`
	GenerativeQuota    int    `mapstructure:"generative_quota"`
	StockEndpoint      string `mapstructure:"stock_endpoint"`
	StockKey           string `mapstructure:"stock_key"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Options  string `mapstructure:"options"`
}

func (c *DatabaseConfig) GetConnectStr() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, sslmode)

	if c.Options != "" {
		// Basic URL encoding for the options value: space -> %20
		encodedOptions := strings.ReplaceAll(c.Options, " ", "%20")
		connStr += fmt.Sprintf("&options=%s", encodedOptions)
	}

	return connStr
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not found, using system environment variables")
	}

	viper.SetConfigFile("config.yaml") // Support optional config.yaml
	viper.AutomaticEnv()

	// Environment variable mappings
	mappings := []struct {
		key, env string
	}{
		{"database.url", "DB_URL"},
		{"database.host", "PG_HOST"},
		{"database.port", "PG_PORT"},
		{"database.user", "PG_USER"},
		{"database.password", "PG_PASSWORD"},
		{"database.dbname", "PG_DB"},
		{"database.sslmode", "PG_SSLMODE"},
		{"database.options", "PG_OPTIONS"},
		{"application.port", "PORT"},
		{"application.theme", "DEFAULT_THEME"},
		{"application.themes_dir", "THEMES_DIR"},
		{"ai.active_provider", "AI_PROVIDER"},

		// Storage
		{"application.storage.exports", "STORAGE_EXPORTS"},
		{"application.storage.thumbnails", "STORAGE_THUMBNAILS"},

		// AI Providers
		{"ai.providers.gemini.key", "GEMINI_KEY"},
		{"ai.providers.gemini.model", "GEMINI_MODEL"},
		{"ai.providers.openai.key", "OPENAI_API_KEY"},
		{"ai.providers.openai.model", "OPENAI_MODEL"},

		// Image providers
		{"images.generative_endpoint", "IMAGE_GEN_ENDPOINT"},
		{"images.generative_key", "IMAGE_GEN_KEY"},
		{"images.generative_quota", "IMAGE_GEN_QUOTA"},
		{"images.stock_endpoint", "PEXELS_ENDPOINT"},
		{"images.stock_key", "PEXELS_KEY"},
	}

	for _, m := range mappings {
		viper.BindEnv(m.key, m.env)
	}

	// Defaults
	viper.SetDefault("application.port", 8080)
	viper.SetDefault("application.theme", "default")
	viper.SetDefault("application.themes_dir", "resources/themes")
	viper.SetDefault("application.storage.exports", "exports")
	viper.SetDefault("application.storage.thumbnails", "thumbnails")
	viper.SetDefault("images.generative_quota", 10)
	viper.SetDefault("images.stock_endpoint", "https://api.pexels.com/v1/search")
	viper.SetDefault("ai.providers.gemini.model", "gemini-1.5-flash")
	viper.SetDefault("ai.providers.gemini.temperature", 0.7)
	viper.SetDefault("ai.providers.gemini.max_tokens", 8192)
	viper.SetDefault("ai.providers.gemini.timeout_seconds", 120)

	// config.yaml is optional
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.AI.ActiveProvider == "" {
		cfg.AI.ActiveProvider = "gemini"
	}

	return &cfg, nil
}
