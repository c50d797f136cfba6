package influxdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// capturedWrite is what the test server saw for one write request.
type capturedWrite struct {
	method          string
	path            string
	query           string
	contentType     string
	contentEncoding string
	authorization   string
	body            string
}

// newWriteServer starts a server that records the request and answers with status.
func newWriteServer(t *testing.T, status int, respBody string) (*httptest.Server, *capturedWrite, *atomic.Int32) {
	t.Helper()
	got := &capturedWrite{}
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.contentType = r.Header.Get("Content-Type")
		got.contentEncoding = r.Header.Get("Content-Encoding")
		got.authorization = r.Header.Get("Authorization")

		var reader io.Reader = r.Body
		if got.contentEncoding == "gzip" {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				t.Errorf("gzip.NewReader() error = %v", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer zr.Close()
			reader = zr
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			t.Errorf("reading body: %v", err)
		}
		got.body = string(data)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, got, &calls
}

const testBody = "ns.requests,metric_type=counter,host=a value=1 1542182950000000011\n"

func TestHTTPWriter_Write_Current(t *testing.T) {
	srv, got, _ := newWriteServer(t, http.StatusNoContent, "")

	w, err := NewHTTPWriter(currentProfile(), srv.URL, false, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPWriter() error = %v", err)
	}

	if err := w.Write(context.Background(), []byte(testBody)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got.method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.method)
	}
	if got.path != "/api/v2/write" {
		t.Errorf("path = %s, want /api/v2/write", got.path)
	}
	if got.query != "org=my-org&bucket=my-bucket&precision=ns" {
		t.Errorf("query = %s", got.query)
	}
	if got.contentType != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", got.contentType)
	}
	if got.authorization != "Token my-token" {
		t.Errorf("Authorization = %q, want Token my-token", got.authorization)
	}
	if got.contentEncoding != "" {
		t.Errorf("Content-Encoding = %q, want none", got.contentEncoding)
	}
	if got.body != testBody {
		t.Errorf("body = %q, want %q", got.body, testBody)
	}
}

func TestHTTPWriter_Write_Legacy(t *testing.T) {
	srv, got, _ := newWriteServer(t, http.StatusNoContent, "")

	w, err := NewHTTPWriter(legacyProfile(), srv.URL+"/", false, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPWriter() error = %v", err)
	}
	if err := w.Write(context.Background(), []byte(testBody)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got.path != "/write" {
		t.Errorf("path = %s, want /write", got.path)
	}
	if got.query != "consistency=quorum&db=vector_db&rp=autogen&p=secret&u=writer&precision=ns" {
		t.Errorf("query = %s", got.query)
	}
	if got.authorization != "" {
		t.Errorf("Authorization = %q, want none for 1.x", got.authorization)
	}
}

func TestHTTPWriter_Write_Gzip(t *testing.T) {
	srv, got, _ := newWriteServer(t, http.StatusNoContent, "")

	w, err := NewHTTPWriter(currentProfile(), srv.URL, true, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPWriter() error = %v", err)
	}
	for range 3 {
		if err := w.Write(context.Background(), []byte(testBody)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if got.contentEncoding != "gzip" {
			t.Errorf("Content-Encoding = %q, want gzip", got.contentEncoding)
		}
		if got.body != testBody {
			t.Errorf("decompressed body = %q, want %q", got.body, testBody)
		}
	}
}

func TestHTTPWriter_Write_EmptyBody(t *testing.T) {
	srv, _, calls := newWriteServer(t, http.StatusNoContent, "")

	w, err := NewHTTPWriter(currentProfile(), srv.URL, false, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPWriter() error = %v", err)
	}
	if err := w.Write(context.Background(), nil); err != nil {
		t.Errorf("Write(nil) error = %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestHTTPWriter_Write_Status(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "204", status: http.StatusNoContent},
		{name: "200", status: http.StatusOK},
		{name: "400 bad line", status: http.StatusBadRequest, body: `{"code":"invalid","message":"unable to parse"}`, wantErr: true},
		{name: "401 unauthorized", status: http.StatusUnauthorized, wantErr: true},
		{name: "503 unavailable", status: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newWriteServer(t, tt.status, tt.body)
			w, err := NewHTTPWriter(currentProfile(), srv.URL, false, srv.Client())
			if err != nil {
				t.Fatalf("NewHTTPWriter() error = %v", err)
			}

			err = w.Write(context.Background(), []byte(testBody))
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Write() error = %v", err)
				}
				return
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("Write() error = %v, want *StatusError", err)
			}
			if statusErr.Op != "write" || statusErr.StatusCode != tt.status || statusErr.Body != tt.body {
				t.Errorf("StatusError = %+v", statusErr)
			}
		})
	}
}

func TestHTTPWriter_Write_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	w, err := NewHTTPWriter(currentProfile(), url, false, nil)
	if err != nil {
		t.Fatalf("NewHTTPWriter() error = %v", err)
	}
	if err := w.Write(context.Background(), []byte(testBody)); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("Write() error = %v, want ErrWriteFailed", err)
	}
}

func TestHTTPWriter_HealthCheck(t *testing.T) {
	srv, got, _ := newWriteServer(t, http.StatusOK, `{"status":"pass"}`)

	w, err := NewHTTPWriter(legacyProfile(), srv.URL, false, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPWriter() error = %v", err)
	}
	if err := w.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if got.path != "/ping" {
		t.Errorf("path = %s, want /ping", got.path)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewHTTPWriter_InvalidEndpoint(t *testing.T) {
	if _, err := NewHTTPWriter(currentProfile(), "localhost:9999", false, nil); !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("NewHTTPWriter() error = %v, want ErrInvalidEndpoint", err)
	}
}

func TestGzipBody(t *testing.T) {
	compressed, err := gzipBody([]byte(testBody))
	if err != nil {
		t.Fatalf("gzipBody() error = %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != testBody {
		t.Errorf("round trip = %q, want %q", data, testBody)
	}
}
