package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"sku-tracker/internal/core/proxy"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Database holds the SKU store configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the token cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// NATS holds the event bus configuration.
	NATS NATSConfig `mapstructure:",squash"`

	// Ingest holds tuning for the ingestion pipeline.
	Ingest IngestConfig `mapstructure:",squash"`

	// Providers holds the credential context for every external provider.
	Providers ProvidersConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy used for provider calls.
	Proxy proxy.Settings `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty selects the in-memory store.
	URL string `mapstructure:"DATABASE_URL"`
	// MigrateOnStart applies pending migrations when the server boots.
	MigrateOnStart bool `mapstructure:"DATABASE_MIGRATE_ON_START" default:"true"`
}

// RedisConfig holds the Redis connection used for caching provider OAuth tokens.
type RedisConfig struct {
	// URL is the Redis connection string. Empty disables the token cache.
	URL string `mapstructure:"REDIS_URL"`
}

// NATSConfig holds the connection used to announce ingested events.
type NATSConfig struct {
	// URL is the NATS server URL. Empty disables publishing.
	URL string `mapstructure:"NATS_URL"`
	// Subject is the subject ingested events are published on.
	Subject string `mapstructure:"NATS_SUBJECT" default:"sku.events.ingested"`
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	// Concurrency bounds the number of provider calls a batch runs in parallel.
	Concurrency int `mapstructure:"INGEST_CONCURRENCY" default:"4"`
}

// ProvidersConfig is the credential context handed to every connector constructor.
type ProvidersConfig struct {
	// Timeout bounds every outbound provider request.
	Timeout time.Duration `mapstructure:"PROVIDER_TIMEOUT" default:"30s"`
	// TokenCacheMargin is subtracted from an OAuth token lifetime before caching it.
	TokenCacheMargin time.Duration `mapstructure:"TOKEN_CACHE_MARGIN" default:"60s"`

	FedEx         FedExConfig         `mapstructure:",squash"`
	UPS           UPSConfig           `mapstructure:",squash"`
	USPS          USPSConfig          `mapstructure:",squash"`
	UPCItemDB     UPCItemDBConfig     `mapstructure:",squash"`
	BarcodeLookup BarcodeLookupConfig `mapstructure:",squash"`
}

// FedExConfig holds the FedEx OAuth client credentials.
type FedExConfig struct {
	ClientID     string `mapstructure:"FEDEX_CLIENT_ID"`
	ClientSecret string `mapstructure:"FEDEX_CLIENT_SECRET"`
	BaseURL      string `mapstructure:"FEDEX_BASE_URL" default:"https://apis.fedex.com"`
}

// UPSConfig holds the UPS OAuth client credentials.
type UPSConfig struct {
	ClientID     string `mapstructure:"UPS_CLIENT_ID"`
	ClientSecret string `mapstructure:"UPS_CLIENT_SECRET"`
	BaseURL      string `mapstructure:"UPS_BASE_URL" default:"https://onlinetools.ups.com"`
}

// USPSConfig holds the USPS Web Tools USERID.
type USPSConfig struct {
	UserID  string `mapstructure:"USPS_USER_ID"`
	BaseURL string `mapstructure:"USPS_BASE_URL" default:"https://secure.shippingapis.com/ShippingAPI.dll"`
}

// UPCItemDBConfig holds the UPCItemDB API key.
type UPCItemDBConfig struct {
	APIKey  string `mapstructure:"UPCITEMDB_API_KEY"`
	BaseURL string `mapstructure:"UPCITEMDB_BASE_URL" default:"https://api.upcitemdb.com"`
}

// BarcodeLookupConfig holds the Barcode Lookup API key.
type BarcodeLookupConfig struct {
	APIKey  string `mapstructure:"BARCODE_LOOKUP_API_KEY"`
	BaseURL string `mapstructure:"BARCODE_LOOKUP_BASE_URL" default:"https://api.barcodelookup.com/v3"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
