package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESOptions configures the search cluster connection.
type ESOptions struct {
	Addrs      []string
	Username   string
	Password   string
	MaxRetries int
	// Timeout bounds dialing and waiting for response headers.
	Timeout time.Duration
}

// NewESClient builds an Elasticsearch client that retries 502/503/504 and
// 429 with a linear backoff. No addresses means search is disabled and nil
// is returned.
func NewESClient(o ESOptions) (*elasticsearch.Client, error) {
	if len(o.Addrs) == 0 {
		return nil, nil
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     o.Addrs,
		Username:      o.Username,
		Password:      o.Password,
		MaxRetries:    o.MaxRetries,
		RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		RetryBackoff:  func(attempt int) time.Duration { return time.Duration(attempt) * 100 * time.Millisecond },
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: o.Timeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: o.Timeout}).DialContext,
		},
	})
}
