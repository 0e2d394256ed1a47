package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// parseEnv overlays cfg with variables from path (a dotenv file, optional)
// and the process environment. Process variables take precedence.
func parseEnv(cfg *Config, path string) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		vars = map[string]string{}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vars[key]
	}

	setIf(&cfg.Catalog.APIKey, lookup("TMDB_API_KEY"))
	setIf(&cfg.Catalog.BearerToken, lookup("TMDB_BEARER_TOKEN"))
	setIf(&cfg.Avatar.S3AccessKey, lookup("S3_ACCESS_KEY"))
	setIf(&cfg.Avatar.S3SecretKey, lookup("S3_SECRET_KEY"))
	setIf(&cfg.LogLevel, lookup("LOG_LEVEL"))
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
