package influxdb

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/config"
)

func TestNewWriter(t *testing.T) {
	v1 := &config.InfluxDBV1Config{Database: "vector_db"}
	v2 := &config.InfluxDBV2Config{Org: "o", Bucket: "b", Token: "t"}

	tests := []struct {
		name        string
		cfg         config.InfluxDBConfig
		wantErr     error
		wantClient  bool
		wantProfile string
	}{
		{
			name:        "v1 over http",
			cfg:         config.InfluxDBConfig{Endpoint: "http://localhost:8086", V1: v1},
			wantProfile: "legacy",
		},
		{
			name:        "v2 over http with gzip",
			cfg:         config.InfluxDBConfig{Endpoint: "http://localhost:9999", Compression: "GZIP", V2: v2},
			wantProfile: "current",
		},
		{
			name:        "v2 through client library",
			cfg:         config.InfluxDBConfig{Endpoint: "http://localhost:9999", Transport: config.TransportClient, Timeout: 3, V2: v2},
			wantClient:  true,
			wantProfile: "current",
		},
		{
			name:    "v1 through client library",
			cfg:     config.InfluxDBConfig{Endpoint: "http://localhost:8086", Transport: config.TransportClient, V1: v1},
			wantErr: ErrTransportUnsupported,
		},
		{
			name:    "both blocks",
			cfg:     config.InfluxDBConfig{Endpoint: "http://localhost:8086", V1: v1, V2: v2},
			wantErr: ErrBothConfigured,
		},
		{
			name:    "no block",
			cfg:     config.InfluxDBConfig{Endpoint: "http://localhost:8086"},
			wantErr: ErrMissingConfiguration,
		},
		{
			name:    "endpoint without scheme",
			cfg:     config.InfluxDBConfig{Endpoint: "localhost:9999", V2: v2},
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "client endpoint without scheme",
			cfg:     config.InfluxDBConfig{Endpoint: "localhost:9999", Transport: config.TransportClient, V2: v2},
			wantErr: ErrInvalidEndpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, profile, err := NewWriter(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewWriter() error = %v, want %v", err, tt.wantErr)
				}
				if w != nil {
					t.Errorf("NewWriter() writer = %v, want nil", w)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			defer w.Close()

			switch profile.(type) {
			case LegacyProfile:
				if tt.wantProfile != "legacy" {
					t.Errorf("profile = legacy, want %s", tt.wantProfile)
				}
			case CurrentProfile:
				if tt.wantProfile != "current" {
					t.Errorf("profile = current, want %s", tt.wantProfile)
				}
			}

			_, isClient := w.(*ClientWriter)
			if isClient != tt.wantClient {
				t.Errorf("writer type = %T, wantClient %v", w, tt.wantClient)
			}
			if hw, ok := w.(*HTTPWriter); ok {
				if hw.gzip != (tt.cfg.Compression != "") {
					t.Errorf("gzip = %v for compression %q", hw.gzip, tt.cfg.Compression)
				}
				if hw.Profile() != profile {
					t.Errorf("Profile() = %v, want %v", hw.Profile(), profile)
				}
			}
		})
	}
}
