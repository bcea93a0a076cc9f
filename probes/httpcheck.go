package probes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonwraymond/healthops/health"
)

// HTTPConfig configures an HTTP probe.
type HTTPConfig struct {
	// Client overrides the HTTP client, for custom transports.
	Client *http.Client

	// Timeout bounds one request when Client is nil. Zero relies on the
	// caller's deadline.
	Timeout time.Duration
}

type httpProbe struct {
	name   string
	url    string
	client *http.Client
}

// HTTP creates an external API probe that GETs url and classifies the
// response: 5xx is unhealthy, 4xx is degraded, anything else is healthy.
func HTTP(name, url string, config ...HTTPConfig) health.Probe {
	cfg := HTTPConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &httpProbe{name: name, url: url, client: client}
}

// Name returns the dependency name.
func (p *httpProbe) Name() string {
	return p.name
}

// Kind returns health.DependencyExternalAPI.
func (p *httpProbe) Kind() health.DependencyType {
	return health.DependencyExternalAPI
}

// Check issues the GET and classifies the status code.
func (p *httpProbe) Check(ctx context.Context) (health.DependencyHealth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return health.UnhealthyDependency(p.name, health.DependencyExternalAPI, err), nil
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := elapsedMS(start)

	if err != nil {
		return health.UnhealthyDependency(p.name, health.DependencyExternalAPI, err).
			WithResponseTime(elapsed), nil
	}
	// Drain a little so keep-alive connections can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	metadata := map[string]any{"status_code": resp.StatusCode}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return health.UnhealthyDependency(p.name, health.DependencyExternalAPI,
			fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithResponseTime(elapsed).
			WithMetadata(metadata), nil

	case resp.StatusCode >= http.StatusBadRequest:
		return health.DegradedDependency(p.name, health.DependencyExternalAPI,
			fmt.Sprintf("unexpected status %d", resp.StatusCode)).
			WithResponseTime(elapsed).
			WithMetadata(metadata), nil

	default:
		return health.HealthyDependency(p.name, health.DependencyExternalAPI).
			WithResponseTime(elapsed).
			WithMetadata(metadata), nil
	}
}
