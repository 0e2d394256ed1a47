package config

import (
	"time"

	"github.com/dmitrijs2005/ratemymovie/internal/catalog"
	"github.com/dmitrijs2005/ratemymovie/internal/kv"
	"github.com/dmitrijs2005/ratemymovie/internal/password"
)

// Config holds runtime settings for the ratemymovie CLI.
type Config struct {
	StoreDriver     string
	StoreDSN        string
	Namespace       string
	Catalog         CatalogConfig
	PasswordHashing string
	Avatar          AvatarConfig
	MetricsAddr     string
	LogLevel        string
}

type CatalogConfig struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	Language    string
	Timeout     time.Duration
}

// AvatarConfig selects where profile images go. A non-empty S3Bucket
// switches from the local directory to S3.
type AvatarConfig struct {
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreDriver = kv.DriverSQLite
	c.StoreDSN = "ratemymovie.db"
	c.Namespace = kv.DefaultNamespace
	c.Catalog = CatalogConfig{
		BaseURL:  catalog.DefaultBaseURL,
		Language: catalog.DefaultLanguage,
		Timeout:  10 * time.Second,
	}
	c.PasswordHashing = password.SchemePlain
	c.Avatar = AvatarConfig{Dir: "avatars", S3Region: "us-east-1"}
	c.MetricsAddr = ""
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the environment, JSON (if -c is given)
// and finally flags from args (usually os.Args[1:]).
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, dotEnvFile)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
