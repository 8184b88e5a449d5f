package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Search    SearchConfig    `mapstructure:"search"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite (default) or postgres
	Path            string        `mapstructure:"path"`   // sqlite file path
	DSNString       string        `mapstructure:"dsn"`    // postgres DSN
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the driver-appropriate connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.DSNString
	}
	return c.Path
}

type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	APIKey     string `mapstructure:"api_key"` // Qdrant Cloud API key (enables TLS)
	UseTLS     bool   `mapstructure:"use_tls"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // s3, r2, s3compatible; empty = auto-detect
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// ChatConfig configures the LLM used for product recommendation replies.
type ChatConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type CatalogConfig struct {
	File     string `mapstructure:"file"`     // line-oriented product text file
	Artifact string `mapstructure:"artifact"` // parsed catalog JSON artifact
}

type SyncConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

type SearchConfig struct {
	DefaultTopK     int     `mapstructure:"default_top_k"`
	MaxTopK         int     `mapstructure:"max_top_k"`
	OverfetchFactor int     `mapstructure:"overfetch_factor"`
	ScoreThreshold  float32 `mapstructure:"score_threshold"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/catalog.db")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection", "coolmate-products")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "catalog-artifacts")
	v.SetDefault("embedding.provider", "azure")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 512)
	v.SetDefault("chat.enabled", true)
	v.SetDefault("chat.model", "gpt-4o-mini")
	v.SetDefault("catalog.file", "./data/products.txt")
	v.SetDefault("catalog.artifact", "./data/products.json")
	v.SetDefault("sync.batch_size", 50)
	v.SetDefault("search.default_top_k", 5)
	v.SetDefault("search.max_top_k", 20)
	v.SetDefault("search.overfetch_factor", 2)
	v.SetDefault("search.score_threshold", 0.0)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("qdrant.host", "QDRANT_HOST")
	v.BindEnv("qdrant.port", "QDRANT_PORT")
	v.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("embedding.api_key", "AZURE_OPENAI_EMBED_KEY")
	v.BindEnv("embedding.base_url", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("embedding.model", "AZURE_OPENAI_EMBED_MODEL")
	v.BindEnv("chat.api_key", "OPENAI_API_KEY")
	v.BindEnv("chat.base_url", "OPENAI_BASE_URL")
	v.BindEnv("chat.model", "CHAT_MODEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required settings are present. A failure here is fatal
// at startup; no partial operation is allowed with broken credentials.
func (c *Config) Validate() error {
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	if c.Qdrant.Host == "" {
		return fmt.Errorf("qdrant: host is required")
	}
	if c.Qdrant.Collection == "" {
		return fmt.Errorf("qdrant: collection is required")
	}
	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("sync: batch_size must be positive")
	}
	if c.Search.OverfetchFactor < 1 {
		return fmt.Errorf("search: overfetch_factor must be at least 1")
	}
	return nil
}
