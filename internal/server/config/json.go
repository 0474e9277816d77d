package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/flagx"
)

// JSONConfig is the on-disk shape of the JSON config file. Durations use
// time.ParseDuration syntax, e.g. "15m".
type JSONConfig struct {
	HTTPAddress        string `json:"http_address"`
	DatabaseDSN        string `json:"database_dsn"`
	AccessTokenSecret  string `json:"access_token_secret"`
	RefreshTokenSecret string `json:"refresh_token_secret"`
	AccessTokenTTL     string `json:"access_token_ttl"`
	RefreshTokenTTL    string `json:"refresh_token_ttl"`

	CookieName     string `json:"cookie_name"`
	CookieSecure   *bool  `json:"cookie_secure"`
	CookieSameSite string `json:"cookie_samesite"`

	PasswordHasher string `json:"password_hasher"`
	BcryptCost     int    `json:"bcrypt_cost"`

	RefreshTokenStore string `json:"refresh_token_store"`
	RedisURL          string `json:"redis_url"`

	LogBackend string `json:"log_backend"`
	LogFormat  string `json:"log_format"`
	LogLevel   string `json:"log_level"`

	LoginMaxAttempts  int    `json:"login_max_attempts"`
	LoginWindow       string `json:"login_window"`
	LoginLockDuration string `json:"login_lock_duration"`

	DBConnectTimeout string `json:"db_connect_timeout"`

	TrustedProxies []string `json:"trusted_proxies"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJSON overlays the file named by -c/-config, if any. Keys that are
// absent or empty in the file keep their current value.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := jc.apply(cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (jc *JSONConfig) apply(cfg *Config) error {
	setString(&cfg.HTTPAddress, jc.HTTPAddress)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.AccessTokenSecret, jc.AccessTokenSecret)
	setString(&cfg.RefreshTokenSecret, jc.RefreshTokenSecret)
	setString(&cfg.CookieName, jc.CookieName)
	setString(&cfg.CookieSameSite, jc.CookieSameSite)
	setString(&cfg.PasswordHasher, jc.PasswordHasher)
	setString(&cfg.RefreshTokenStore, jc.RefreshTokenStore)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)

	if jc.CookieSecure != nil {
		cfg.CookieSecure = *jc.CookieSecure
	}
	if jc.BcryptCost != 0 {
		cfg.BcryptCost = jc.BcryptCost
	}
	if len(jc.TrustedProxies) > 0 {
		cfg.TrustedProxies = jc.TrustedProxies
	}
	if jc.LoginMaxAttempts != 0 {
		cfg.LoginMaxAttempts = jc.LoginMaxAttempts
	}

	durations := []struct {
		key string
		dst *time.Duration
		val string
	}{
		{"access_token_ttl", &cfg.AccessTokenTTL, jc.AccessTokenTTL},
		{"refresh_token_ttl", &cfg.RefreshTokenTTL, jc.RefreshTokenTTL},
		{"login_window", &cfg.LoginWindow, jc.LoginWindow},
		{"login_lock_duration", &cfg.LoginLockDuration, jc.LoginLockDuration},
		{"db_connect_timeout", &cfg.DBConnectTimeout, jc.DBConnectTimeout},
	}
	for _, d := range durations {
		if err := setDuration(d.dst, d.val); err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
