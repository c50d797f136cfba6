package mqtt

import (
	"fmt"
	"strings"
)

// maxPayloadSize caps published payloads at 1MB, a common broker limit.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for the broker's acknowledgement.
//
// The sink itself only publishes its status; Publish exists for record
// producers sharing this package (and for tests).
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" || strings.ContainsAny(topic, "#+") {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}
