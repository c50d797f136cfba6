package mqtt

import (
	"fmt"
)

// Subscribe registers a handler for messages matching filter.
//
// Filters may use "+" and "#" wildcards, e.g. "influxsink/metrics/#".
// Subscriptions are restored automatically after a reconnect.
//
// Parameters:
//   - filter: Topic filter to subscribe to
//   - qos: Maximum QoS for received messages (0, 1, or 2)
//   - handler: Callback invoked for each message
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Subscribe(filter string, qos byte, handler MessageHandler) error {
	if err := ValidateFilter(filter); err != nil {
		return err
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subscriptions[filter] = subscription{topic: filter, qos: qos, handler: handler}
	c.subMu.Unlock()

	token := c.client.Subscribe(filter, qos, c.wrapHandler(handler))
	if !token.WaitTimeout(defaultPublishTimeout) {
		c.forget(filter)
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		c.forget(filter)
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// Unsubscribe removes a subscription made with Subscribe.
func (c *Client) Unsubscribe(filter string) error {
	if filter == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.forget(filter)

	token := c.client.Unsubscribe(filter)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrUnsubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}

	return nil
}

// SubscriptionCount returns the number of tracked subscriptions.
func (c *Client) SubscriptionCount() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subscriptions)
}

func (c *Client) forget(filter string) {
	c.subMu.Lock()
	delete(c.subscriptions, filter)
	c.subMu.Unlock()
}
