// Package config handles loading and validating the InfluxDB sink configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Tokens and passwords should be set via environment variables
//     (INFLUXSINK_INFLUXDB_TOKEN, INFLUXSINK_INFLUXDB_PASSWORD)
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.InfluxDB.Endpoint)
package config
