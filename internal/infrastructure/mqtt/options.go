package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/config"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is in milliseconds.
	defaultDisconnectQuiesce = 1000

	defaultKeepAlive = 60 * time.Second

	maxQoS = 2

	tlsMinVersion = tls.VersionTLS12

	// clientIDSuffixLen is how much of a UUID is appended to the client ID.
	clientIDSuffixLen = 8
)

// buildClientOptions creates paho options from the MQTT config.
//
// Sessions are clean: records published while the sink is down are not
// replayed. Reconnect uses the configured backoff bounds.
func buildClientOptions(cfg config.MQTTConfig, clientID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))
	opts.SetClientID(clientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)
	opts.SetOrderMatters(false)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second)
	opts.SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second)

	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tlsMinVersion})
	}

	return opts
}

// configureLWT registers a retained "offline" will on the status topic.
// No will is set when the status topic is empty.
func configureLWT(opts *pahomqtt.ClientOptions, topic, clientID string) {
	if topic == "" {
		return
	}
	opts.SetWill(topic, string(statusPayload(statusOffline, clientID, reasonUnexpected)), 1, true)
}

// uniqueClientID appends a short random suffix to base.
func uniqueClientID(base string) string {
	suffix := uuid.NewString()[:clientIDSuffixLen]
	if base == "" {
		return "influxsink-" + suffix
	}
	return base + "-" + suffix
}
