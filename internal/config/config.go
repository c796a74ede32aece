package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Server struct {
		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"server"`
	Platform struct {
		BaseURL        string `mapstructure:"base_url"`
		AdminKey       string `mapstructure:"admin_key"`
		BearerToken    string `mapstructure:"bearer_token"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"platform"`
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	Auth struct {
		Issuer       string `mapstructure:"issuer"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RedirectURL  string `mapstructure:"redirect_url"`
		DevBypass    bool   `mapstructure:"dev_bypass"`
	} `mapstructure:"auth"`
	TLS struct {
		Enable       bool     `mapstructure:"enable"`
		CertFile     string   `mapstructure:"cert_file"`
		KeyFile      string   `mapstructure:"key_file"`
		Hostnames    []string `mapstructure:"hostnames"`
		Organization string   `mapstructure:"organization"`
		ValidityDays int      `mapstructure:"validity_days"`
	} `mapstructure:"tls"`
}

// LoadConfig loads the configuration from a file and the environment.
// A missing config file is not an error: defaults plus NDIS_-prefixed
// environment variables are enough to run.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("ndis")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// normalize issuer url (strip trailing slash if any)
	config.Auth.Issuer = normalizeIssuer(config.Auth.Issuer)
	config.Platform.BaseURL = strings.TrimRight(strings.TrimSpace(config.Platform.BaseURL), "/")

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("platform.base_url", "http://localhost:8000/api/v1")
	// development-only key, must be overridden in any real deployment
	viper.SetDefault("platform.admin_key", "admin-development-key")
	// empty token leaves platform reads unauthenticated (development default)
	viper.SetDefault("platform.bearer_token", "")
	viper.SetDefault("platform.timeout_seconds", 30)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.user", "postgres")
	viper.SetDefault("db.name", "ndis_console")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("tls.organization", "NDIS Onboarding Dev")
	viper.SetDefault("tls.validity_days", 365)
}

// normalizeIssuer ensures the provided OIDC issuer string is in a
// predictable form. It removes any trailing slash and leaves the scheme and
// path intact. This allows users to paste the full URL from the identity
// provider's admin console without worrying about double prefixes.
func normalizeIssuer(input string) string {
	iss := strings.TrimSpace(input)
	if strings.HasSuffix(iss, "/") {
		iss = strings.TrimRight(iss, "/")
	}
	return iss
}
