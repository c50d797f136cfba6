package influxdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newHealthServer starts a server answering every request with status and body,
// recording the last request it saw.
func newHealthServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	seen := new(http.Request)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r.Clone(context.Background())
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestCheckHealth_Status(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus bool
	}{
		{name: "200 ok", status: http.StatusOK, body: `{"status":"pass"}`},
		{name: "204 no content", status: http.StatusNoContent},
		{name: "500 server error", status: http.StatusInternalServerError, body: "boom", wantStatus: true},
		{name: "404 not found", status: http.StatusNotFound, wantStatus: true},
		{name: "202 accepted is not healthy", status: http.StatusAccepted, wantStatus: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newHealthServer(t, tt.status, tt.body)

			err := CheckHealth(context.Background(), currentProfile(), srv.URL, srv.Client())
			if !tt.wantStatus {
				if err != nil {
					t.Errorf("CheckHealth() error = %v, want nil", err)
				}
				return
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("CheckHealth() error = %v, want *StatusError", err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
			}
			if statusErr.Body != tt.body {
				t.Errorf("Body = %q, want %q", statusErr.Body, tt.body)
			}
			if !errors.Is(err, ErrUnexpectedStatus) {
				t.Error("errors.Is(err, ErrUnexpectedStatus) = false")
			}
		})
	}
}

func TestCheckHealth_Request(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		wantPath string
	}{
		{name: "legacy pings", profile: legacyProfile(), wantPath: "/ping"},
		{name: "current asks health", profile: currentProfile(), wantPath: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newHealthServer(t, http.StatusNoContent, "")

			if err := CheckHealth(context.Background(), tt.profile, srv.URL, srv.Client()); err != nil {
				t.Fatalf("CheckHealth() error = %v", err)
			}
			if seen.Method != http.MethodGet {
				t.Errorf("Method = %s, want GET", seen.Method)
			}
			if seen.URL.Path != tt.wantPath {
				t.Errorf("Path = %s, want %s", seen.URL.Path, tt.wantPath)
			}
			if seen.URL.RawQuery != "" {
				t.Errorf("RawQuery = %q, want empty", seen.URL.RawQuery)
			}
			if seen.ContentLength != 0 {
				t.Errorf("ContentLength = %d, want 0", seen.ContentLength)
			}
		})
	}
}

func TestCheckHealth_TruncatesBody(t *testing.T) {
	srv, _ := newHealthServer(t, http.StatusServiceUnavailable, strings.Repeat("x", 4*maxErrorBody))

	err := CheckHealth(context.Background(), legacyProfile(), srv.URL, srv.Client())

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("CheckHealth() error = %v, want *StatusError", err)
	}
	if len(statusErr.Body) != maxErrorBody {
		t.Errorf("len(Body) = %d, want %d", len(statusErr.Body), maxErrorBody)
	}
}

func TestCheckHealth_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := CheckHealth(context.Background(), currentProfile(), url, http.DefaultClient)
	if !errors.Is(err, ErrHealthCheckFailed) {
		t.Errorf("CheckHealth() error = %v, want ErrHealthCheckFailed", err)
	}
	if errors.Is(err, ErrUnexpectedStatus) {
		t.Error("network failure must not be reported as a status error")
	}
}

func TestCheckHealth_CancelledContext(t *testing.T) {
	srv, _ := newHealthServer(t, http.StatusOK, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CheckHealth(ctx, currentProfile(), srv.URL, srv.Client())
	if !errors.Is(err, ErrHealthCheckFailed) {
		t.Errorf("CheckHealth() error = %v, want ErrHealthCheckFailed", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CheckHealth() error = %v, want context.Canceled in chain", err)
	}
}

func TestCheckHealth_InvalidEndpoint(t *testing.T) {
	err := CheckHealth(context.Background(), currentProfile(), "localhost:9999", http.DefaultClient)
	if !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("CheckHealth() error = %v, want ErrInvalidEndpoint", err)
	}
}

func TestStatusError_Message(t *testing.T) {
	tests := []struct {
		err  *StatusError
		want string
	}{
		{err: &StatusError{Op: "write", StatusCode: 400}, want: "influxdb: write: unexpected status 400"},
		{err: &StatusError{Op: "health check", StatusCode: 503, Body: "down"}, want: "influxdb: health check: unexpected status 503: down"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
