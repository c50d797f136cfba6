package influxdb

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/config"
)

// NewWriter resolves the API profile from cfg and builds the configured
// writer.
//
// Configuration problems (both or neither settings block, a malformed
// endpoint, a transport that cannot serve the API generation) are returned
// here and should abort startup.
//
// Parameters:
//   - cfg: InfluxDB section of config.yaml
//
// Returns:
//   - Writer: Ready-to-use writer
//   - Profile: The resolved profile
//   - error: Configuration error
func NewWriter(cfg config.InfluxDBConfig) (Writer, Profile, error) {
	profile, err := Resolve(SettingsFromConfig(cfg))
	if err != nil {
		return nil, nil, err
	}

	gzip := strings.EqualFold(cfg.Compression, config.CompressionGzip)

	switch strings.ToLower(cfg.Transport) {
	case config.TransportClient:
		current, ok := profile.(CurrentProfile)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q requires v2 settings", ErrTransportUnsupported, cfg.Transport)
		}
		w, err := NewClientWriter(current, cfg.Endpoint, gzip, cfg.GetTimeout())
		if err != nil {
			return nil, nil, err
		}
		return w, profile, nil

	default:
		client := &http.Client{Timeout: cfg.GetTimeout()}
		w, err := NewHTTPWriter(profile, cfg.Endpoint, gzip, client)
		if err != nil {
			return nil, nil, err
		}
		return w, profile, nil
	}
}
