package influxdb

import (
	"fmt"
	"net/url"

	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/config"
)

// LegacySettings configures the 1.x API. Empty optional fields are absent.
type LegacySettings struct {
	Database            string
	Consistency         string
	RetentionPolicyName string
	Username            string
	Password            string
}

// String renders the settings with the password redacted.
func (s LegacySettings) String() string {
	return fmt.Sprintf("{database: %q, consistency: %q, retention_policy_name: %q, username: %q, password: %s}",
		s.Database, s.Consistency, s.RetentionPolicyName, s.Username, redact(s.Password))
}

// CurrentSettings configures the 2.x API.
type CurrentSettings struct {
	Org    string
	Bucket string
	Token  string
}

// String renders the settings with the token redacted.
func (s CurrentSettings) String() string {
	return fmt.Sprintf("{org: %q, bucket: %q, token: %s}", s.Org, s.Bucket, redact(s.Token))
}

func redact(secret string) string {
	if secret == "" {
		return `""`
	}
	return "[redacted]"
}

// Profile is the resolved API generation. The only implementations are
// LegacyProfile and CurrentProfile; switch on them to handle every case.
type Profile interface {
	// WriteURI returns the write endpoint, query parameters included.
	WriteURI(endpoint string) (*url.URL, error)

	// HealthURI returns the health endpoint. It has no query string.
	HealthURI(endpoint string) (*url.URL, error)

	// AuthToken returns the token for the Authorization header, or ""
	// when the API generation does not use one.
	AuthToken() string

	sealed()
}

// LegacyProfile targets the 1.x API: /write and /ping.
type LegacyProfile struct {
	Settings LegacySettings
}

// WriteURI implements Profile.
// Parameters are emitted in the order consistency, db, rp, p, u, precision.
func (p LegacyProfile) WriteURI(endpoint string) (*url.URL, error) {
	s := p.Settings
	return encodeURI(endpoint, "write", []queryPair{
		{"consistency", s.Consistency},
		{"db", s.Database},
		{"rp", s.RetentionPolicyName},
		{"p", s.Password},
		{"u", s.Username},
		{"precision", "ns"},
	})
}

// HealthURI implements Profile.
func (p LegacyProfile) HealthURI(endpoint string) (*url.URL, error) {
	return encodeURI(endpoint, "ping", nil)
}

// AuthToken implements Profile. Credentials travel in the query string.
func (LegacyProfile) AuthToken() string { return "" }

func (LegacyProfile) sealed() {}

// CurrentProfile targets the 2.x API: /api/v2/write and /health.
type CurrentProfile struct {
	Settings CurrentSettings
}

// WriteURI implements Profile.
// Parameters are emitted in the order org, bucket, precision.
func (p CurrentProfile) WriteURI(endpoint string) (*url.URL, error) {
	s := p.Settings
	return encodeURI(endpoint, "api/v2/write", []queryPair{
		{"org", s.Org},
		{"bucket", s.Bucket},
		{"precision", "ns"},
	})
}

// HealthURI implements Profile.
func (p CurrentProfile) HealthURI(endpoint string) (*url.URL, error) {
	return encodeURI(endpoint, "health", nil)
}

// AuthToken implements Profile.
func (p CurrentProfile) AuthToken() string { return p.Settings.Token }

func (CurrentProfile) sealed() {}

// Resolve turns the two optional settings blocks into a Profile.
//
// Exactly one block must be given. Both is a *BothConfiguredError, neither
// is ErrMissingConfiguration; there is no precedence between them.
func Resolve(legacy *LegacySettings, current *CurrentSettings) (Profile, error) {
	switch {
	case legacy != nil && current != nil:
		return nil, &BothConfiguredError{Legacy: *legacy, Current: *current}
	case legacy != nil:
		return LegacyProfile{Settings: *legacy}, nil
	case current != nil:
		return CurrentProfile{Settings: *current}, nil
	default:
		return nil, ErrMissingConfiguration
	}
}

// SettingsFromConfig maps the YAML blocks onto settings. A nil block maps
// to a nil settings pointer.
func SettingsFromConfig(cfg config.InfluxDBConfig) (*LegacySettings, *CurrentSettings) {
	var legacy *LegacySettings
	if v1 := cfg.V1; v1 != nil {
		legacy = &LegacySettings{
			Database:            v1.Database,
			Consistency:         v1.Consistency,
			RetentionPolicyName: v1.RetentionPolicyName,
			Username:            v1.Username,
			Password:            v1.Password,
		}
	}

	var current *CurrentSettings
	if v2 := cfg.V2; v2 != nil {
		current = &CurrentSettings{
			Org:    v2.Org,
			Bucket: v2.Bucket,
			Token:  v2.Token,
		}
	}

	return legacy, current
}
