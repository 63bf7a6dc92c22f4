package publisher

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Carbonhell/SmartDisplay/internal/publisher"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
)

const publishTimeout = 15 * time.Second

type TLSFiles struct {
	CertFile   string
	KeyFile    string
	RootCAFile string
}

// HTTPPublisher posts topic snapshots to the IoT data plane HTTPS endpoint.
type HTTPPublisher struct {
	endpoint string
	client   *http.Client
}

func NewHTTPPublisher(endpoint string, client *http.Client) publisher.Publisher {
	if client == nil {
		client = &http.Client{Timeout: publishTimeout}
	}
	return &HTTPPublisher{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
	}
}

// NewMTLSClient loads the device certificate once; it is not reloaded for
// the lifetime of the client.
func NewMTLSClient(files TLSFiles) (*http.Client, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if files.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(files.CertFile, files.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	if files.RootCAFile != "" {
		pem, err := os.ReadFile(files.RootCAFile)
		if err != nil {
			return nil, fmt.Errorf("read root ca: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("root ca %s contains no certificates", files.RootCAFile)
		}
		tlsConfig.RootCAs = pool
	}
	return &http.Client{
		Timeout:   publishTimeout,
		Transport: &http.Transport{TLSClientConfig: tlsConfig},
	}, nil
}

func (p *HTTPPublisher) Publish(ctx context.Context, topic string, events []repository.Event, opts publisher.Options) error {
	if err := opts.QoS.Validate(); err != nil {
		return err
	}
	if events == nil {
		events = []repository.Event{}
	}
	b, err := json.Marshal(events)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.topicURL(topic, opts), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("publish to %q returned status %d", topic, resp.StatusCode)
	}
	return nil
}

// topicURL escapes the topic as a single path segment, so "F3/P3" is sent
// as "F3%2FP3".
func (p *HTTPPublisher) topicURL(topic string, opts publisher.Options) string {
	query := url.Values{}
	query.Set("qos", strconv.Itoa(int(opts.QoS)))
	query.Set("retain", strconv.FormatBool(opts.Retain))
	return p.endpoint + "/topics/" + url.PathEscape(topic) + "?" + query.Encode()
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
