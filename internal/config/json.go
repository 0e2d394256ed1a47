package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ratemymovie/internal/flagx"
	"github.com/dmitrijs2005/ratemymovie/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	StoreDriver string `json:"store_driver"`
	StoreDSN    string `json:"store_dsn"`
	Namespace   string `json:"namespace"`
	Catalog     struct {
		BaseURL     string         `json:"base_url"`
		APIKey      string         `json:"api_key"`
		BearerToken string         `json:"bearer_token"`
		Language    string         `json:"language"`
		Timeout     timex.Duration `json:"timeout"`
	} `json:"catalog"`
	PasswordHashing string `json:"password_hashing"`
	Avatar          struct {
		Dir        string `json:"dir"`
		S3Bucket   string `json:"s3_bucket"`
		S3Region   string `json:"s3_region"`
		S3Endpoint string `json:"s3_endpoint"`
	} `json:"avatar"`
	MetricsAddr string `json:"metrics_addr"`
	LogLevel    string `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c / -config in args.
// Without the flag nothing happens. Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.StoreDriver, jc.StoreDriver)
	setIf(&cfg.StoreDSN, jc.StoreDSN)
	setIf(&cfg.Namespace, jc.Namespace)
	setIf(&cfg.Catalog.BaseURL, jc.Catalog.BaseURL)
	setIf(&cfg.Catalog.APIKey, jc.Catalog.APIKey)
	setIf(&cfg.Catalog.BearerToken, jc.Catalog.BearerToken)
	setIf(&cfg.Catalog.Language, jc.Catalog.Language)
	if jc.Catalog.Timeout.Duration > 0 {
		cfg.Catalog.Timeout = jc.Catalog.Timeout.Duration
	}
	setIf(&cfg.PasswordHashing, jc.PasswordHashing)
	setIf(&cfg.Avatar.Dir, jc.Avatar.Dir)
	setIf(&cfg.Avatar.S3Bucket, jc.Avatar.S3Bucket)
	setIf(&cfg.Avatar.S3Region, jc.Avatar.S3Region)
	setIf(&cfg.Avatar.S3Endpoint, jc.Avatar.S3Endpoint)
	setIf(&cfg.MetricsAddr, jc.MetricsAddr)
	setIf(&cfg.LogLevel, jc.LogLevel)
}
