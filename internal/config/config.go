package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DatabaseURL     string   `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSigningKey   string   `mapstructure:"JWT_SIGN_PRIVATE_KEY"`
	TokenTTLMinutes int      `mapstructure:"TOKEN_TTL_MINUTES"`
	IdPIssuer       string   `mapstructure:"IDP_ISSUER"`
	IdPJWKSURL      string   `mapstructure:"IDP_JWKS_URL"`
	IdPAudience     string   `mapstructure:"IDP_AUDIENCE"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "3094")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SIGN_PRIVATE_KEY")
	v.BindEnv("TOKEN_TTL_MINUTES")
	v.BindEnv("IDP_ISSUER")
	v.BindEnv("IDP_JWKS_URL")
	v.BindEnv("IDP_AUDIENCE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSigningKey == "" {
		log.Println("WARNING: JWT_SIGN_PRIVATE_KEY is not set; a random signing key")
		log.Println("WARNING: will be generated at startup and tokens will not survive")
		log.Println("WARNING: a restart. Set JWT_SIGN_PRIVATE_KEY for stable sessions.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Production refuses
// to start without a signing key, and federated login needs both an issuer
// and a JWKS endpoint when either is configured.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGN_PRIVATE_KEY is required in production")
	}
	if c.JWTSigningKey != "" && len(c.JWTSigningKey) < 32 {
		return fmt.Errorf("JWT_SIGN_PRIVATE_KEY must be at least 32 characters, got %d", len(c.JWTSigningKey))
	}
	if (c.IdPIssuer == "") != (c.IdPJWKSURL == "") {
		return fmt.Errorf("IDP_ISSUER and IDP_JWKS_URL must be set together (issuer=%q, jwks=%q)",
			c.IdPIssuer, c.IdPJWKSURL)
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}
	return nil
}

// FederationEnabled reports whether the external identity provider login
// path is configured.
func (c *Config) FederationEnabled() bool {
	return c.IdPIssuer != "" && c.IdPJWKSURL != ""
}
