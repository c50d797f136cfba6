package influxdb

import (
	"fmt"
	"net/url"
	"strings"
)

// queryPair is one query parameter. An empty value means absent.
type queryPair struct {
	key   string
	value string
}

// BuildWriteURI returns the write URI of p for endpoint.
func BuildWriteURI(p Profile, endpoint string) (*url.URL, error) {
	return p.WriteURI(endpoint)
}

// BuildHealthURI returns the health URI of p for endpoint.
func BuildHealthURI(p Profile, endpoint string) (*url.URL, error) {
	return p.HealthURI(endpoint)
}

// encodeURI appends path to endpoint (inserting a "/" if needed) and a
// query string built from pairs in the given order. Absent values are
// skipped; with no values left there is no "?".
func encodeURI(endpoint, path string, pairs []queryPair) (*url.URL, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(endpoint)
	if !strings.HasSuffix(endpoint, "/") {
		b.WriteByte('/')
	}
	b.WriteString(path)

	sep := byte('?')
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		b.WriteByte(sep)
		sep = '&'
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}

	u, err := url.Parse(b.String())
	if err != nil {
		// Don't wrap err: its message carries the query, which may hold a password.
		return nil, fmt.Errorf("%w: %q: cannot append %q", ErrInvalidEndpoint, endpoint, path)
	}
	return u, nil
}

// validateEndpoint requires an absolute http(s) URL with a host and
// without query or fragment, since the path and query are appended to it.
func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidEndpoint, endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q: missing host", ErrInvalidEndpoint, endpoint)
	}
	if u.RawQuery != "" || u.Fragment != "" || strings.HasSuffix(endpoint, "?") {
		return fmt.Errorf("%w: %q: must not carry a query or fragment", ErrInvalidEndpoint, endpoint)
	}
	return nil
}
