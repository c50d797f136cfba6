package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeMessage implements pahomqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// mockLogger records log calls.
type mockLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}
	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	client := &Client{}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	client := &Client{subscriptions: map[string]subscription{}}
	handler := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		filter  string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{name: "empty filter", filter: "", qos: 1, handler: handler, wantErr: ErrInvalidTopic},
		{name: "bad wildcard", filter: "a/#/b", qos: 1, handler: handler, wantErr: ErrInvalidTopic},
		{name: "invalid qos", filter: "a/b", qos: 3, handler: handler, wantErr: ErrInvalidQoS},
		{name: "nil handler", filter: "a/b", qos: 1, wantErr: ErrSubscribeFailed},
		{name: "not connected", filter: "a/#", qos: 1, handler: handler, wantErr: ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Subscribe(tt.filter, tt.qos, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", client.SubscriptionCount())
	}
}

func TestPublish_Validation(t *testing.T) {
	client := &Client{}

	tests := []struct {
		name    string
		topic   string
		qos     byte
		payload []byte
		wantErr error
	}{
		{name: "empty topic", topic: "", wantErr: ErrInvalidTopic},
		{name: "wildcard topic", topic: "a/#", wantErr: ErrInvalidTopic},
		{name: "invalid qos", topic: "a", qos: 3, wantErr: ErrInvalidQoS},
		{name: "too large", topic: "a", payload: make([]byte, maxPayloadSize+1), wantErr: ErrPublishFailed},
		{name: "not connected", topic: "a", wantErr: ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnsubscribe_Validation(t *testing.T) {
	client := &Client{subscriptions: map[string]subscription{}}
	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Unsubscribe("a/b"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() error = %v, want ErrNotConnected", err)
	}
}

func TestWrapHandler(t *testing.T) {
	tests := []struct {
		name      string
		handler   MessageHandler
		wantWarn  int
		wantError int
	}{
		{name: "ok", handler: func(string, []byte) error { return nil }},
		{name: "error is logged", handler: func(string, []byte) error { return errors.New("bad payload") }, wantWarn: 1},
		{name: "panic is recovered", handler: func(string, []byte) error { panic("boom") }, wantError: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			client := &Client{}
			client.SetLogger(logger)

			var gotTopic string
			var gotPayload []byte
			wrapped := client.wrapHandler(func(topic string, payload []byte) error {
				gotTopic, gotPayload = topic, payload
				return tt.handler(topic, payload)
			})
			wrapped(nil, fakeMessage{topic: "influxsink/metrics/app", payload: []byte(`{}`)})

			if gotTopic != "influxsink/metrics/app" || string(gotPayload) != `{}` {
				t.Errorf("handler saw %q %q", gotTopic, gotPayload)
			}
			if len(logger.warns) != tt.wantWarn || len(logger.errors) != tt.wantError {
				t.Errorf("warns, errors = %d, %d, want %d, %d",
					len(logger.warns), len(logger.errors), tt.wantWarn, tt.wantError)
			}
		})
	}
}

func TestWrapHandler_NoLogger(t *testing.T) {
	client := &Client{}
	wrapped := client.wrapHandler(func(string, []byte) error { panic("boom") })

	// Must not propagate the panic.
	wrapped(nil, fakeMessage{topic: "t"})
}

func TestHandleDisconnect_Callback(t *testing.T) {
	client := &Client{connected: true}
	logger := &mockLogger{}
	client.SetLogger(logger)

	got := make(chan error, 1)
	client.SetOnDisconnect(func(err error) { got <- err })

	cause := errors.New("network down")
	client.handleDisconnect(cause)

	if err := <-got; !errors.Is(err, cause) {
		t.Errorf("callback error = %v, want %v", err, cause)
	}
	if client.connected {
		t.Error("connected = true after disconnect")
	}
	if len(logger.warns) != 1 {
		t.Errorf("warns = %d, want 1", len(logger.warns))
	}
}
