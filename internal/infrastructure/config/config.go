package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the InfluxDB sink.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InfluxDBConfig contains the InfluxDB endpoint and API settings.
//
// Exactly one of V1 or V2 must be set. The check is performed when the
// writer is constructed (see influxdb.Resolve), not here, so that the
// operator gets the dedicated "both configured"/"missing" errors.
type InfluxDBConfig struct {
	Endpoint    string   `yaml:"endpoint"`
	Namespace   string   `yaml:"namespace"`
	Compression string   `yaml:"compression"`
	Transport   string   `yaml:"transport"`
	Timeout     int      `yaml:"timeout"`
	Healthcheck bool     `yaml:"healthcheck"`
	LogTags     []string `yaml:"log_tags"`

	V1 *InfluxDBV1Config `yaml:"v1"`
	V2 *InfluxDBV2Config `yaml:"v2"`
}

// InfluxDBV1Config contains settings for the 1.x API (database based).
type InfluxDBV1Config struct {
	Database            string `yaml:"database"`
	Consistency         string `yaml:"consistency"`
	RetentionPolicyName string `yaml:"retention_policy_name"`
	Username            string `yaml:"username"`
	Password            string `yaml:"password"`
}

// InfluxDBV2Config contains settings for the 2.x API (org/bucket/token).
type InfluxDBV2Config struct {
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
	Token  string `yaml:"token"`
}

// Compression modes for write request bodies.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
)

// Transports used to reach InfluxDB.
const (
	// TransportHTTP builds requests directly (both API generations).
	TransportHTTP = "http"

	// TransportClient uses the official influxdb-client-go library (2.x only).
	TransportClient = "client"
)

// MQTTConfig contains MQTT broker connection settings for the record source.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
	Topics    MQTTTopicsConfig    `yaml:"topics"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// MQTTTopicsConfig names the topics carrying metric and log batches.
type MQTTTopicsConfig struct {
	Metrics string `yaml:"metrics"`
	Logs    string `yaml:"logs"`
	Status  string `yaml:"status"`
}

// MetricsConfig controls the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: INFLUXSINK_SECTION_KEY
// For example: INFLUXSINK_INFLUXDB_ENDPOINT, INFLUXSINK_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		InfluxDB: InfluxDBConfig{
			Compression: CompressionNone,
			Transport:   TransportHTTP,
			Timeout:     10,
			Healthcheck: true,
			LogTags:     []string{"host", "source_type"},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "influxsink",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			Topics: MQTTTopicsConfig{
				Metrics: "influxsink/metrics/#",
				Logs:    "influxsink/logs/#",
				Status:  "influxsink/system/status",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Listen:  ":9273",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Credentials only land in a settings block that the file already declares,
// so an env var can never switch the API generation on its own.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INFLUXSINK_INFLUXDB_ENDPOINT"); v != "" {
		cfg.InfluxDB.Endpoint = v
	}
	if v := os.Getenv("INFLUXSINK_INFLUXDB_TOKEN"); v != "" && cfg.InfluxDB.V2 != nil {
		cfg.InfluxDB.V2.Token = v
	}
	if v := os.Getenv("INFLUXSINK_INFLUXDB_USERNAME"); v != "" && cfg.InfluxDB.V1 != nil {
		cfg.InfluxDB.V1.Username = v
	}
	if v := os.Getenv("INFLUXSINK_INFLUXDB_PASSWORD"); v != "" && cfg.InfluxDB.V1 != nil {
		cfg.InfluxDB.V1.Password = v
	}

	if v := os.Getenv("INFLUXSINK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("INFLUXSINK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("INFLUXSINK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// InfluxDB validation
	if strings.TrimSpace(c.InfluxDB.Endpoint) == "" {
		errs = append(errs, "influxdb.endpoint is required")
	}
	switch strings.ToLower(c.InfluxDB.Compression) {
	case "", CompressionNone, CompressionGzip:
	default:
		errs = append(errs, "influxdb.compression must be none or gzip")
	}
	switch strings.ToLower(c.InfluxDB.Transport) {
	case "", TransportHTTP, TransportClient:
	default:
		errs = append(errs, "influxdb.transport must be http or client")
	}
	if c.InfluxDB.Timeout < 0 {
		errs = append(errs, "influxdb.timeout must not be negative")
	}
	if v1 := c.InfluxDB.V1; v1 != nil && v1.Database == "" {
		errs = append(errs, "influxdb.v1.database is required")
	}
	if v2 := c.InfluxDB.V2; v2 != nil {
		if v2.Org == "" {
			errs = append(errs, "influxdb.v2.org is required")
		}
		if v2.Bucket == "" {
			errs = append(errs, "influxdb.v2.bucket is required")
		}
		if v2.Token == "" {
			errs = append(errs, "influxdb.v2.token is required (set INFLUXSINK_INFLUXDB_TOKEN environment variable)")
		}
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
		if c.MQTT.Topics.Metrics == "" && c.MQTT.Topics.Logs == "" {
			errs = append(errs, "mqtt.topics needs at least one of metrics or logs")
		}
	}

	// Metrics endpoint validation
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, "metrics.listen is required when metrics are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetTimeout returns the InfluxDB request timeout as a Duration.
// Zero means no client-side timeout.
func (c *InfluxDBConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
