package probes

import (
	"context"
	"net"
	"time"

	"github.com/jonwraymond/healthops/health"
)

// TCPConfig configures a TCP probe.
type TCPConfig struct {
	// Timeout bounds one connection attempt. Zero relies on the caller's
	// deadline.
	Timeout time.Duration
}

type tcpProbe struct {
	name   string
	addr   string
	kind   health.DependencyType
	config TCPConfig
}

// TCP creates a reachability probe that dials addr and closes the
// connection. The caller picks the dependency classification, so the same
// probe serves caches, brokers, and anything else speaking TCP.
func TCP(name, addr string, kind health.DependencyType, config ...TCPConfig) health.Probe {
	cfg := TCPConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	return &tcpProbe{name: name, addr: addr, kind: kind, config: cfg}
}

// Name returns the dependency name.
func (p *tcpProbe) Name() string {
	return p.name
}

// Kind returns the declared dependency classification.
func (p *tcpProbe) Kind() health.DependencyType {
	return p.kind
}

// Check dials the endpoint.
func (p *tcpProbe) Check(ctx context.Context) (health.DependencyHealth, error) {
	dialer := net.Dialer{
		Timeout: p.config.Timeout,
	}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	elapsed := elapsedMS(start)

	if err != nil {
		return health.UnhealthyDependency(p.name, p.kind, err).
			WithResponseTime(elapsed), nil
	}
	_ = conn.Close()

	return health.HealthyDependency(p.name, p.kind).
		WithResponseTime(elapsed), nil
}
