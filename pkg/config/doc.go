// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for parsing struct tags. Each configuration
// type is parsed once and cached, so packages can call Load wherever they
// need their settings:
//
//	var cfg form.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// LoadEnv reads explicit .env files and clears the cache; ResetCache clears
// it alone, which tests use after changing the environment.
package config
