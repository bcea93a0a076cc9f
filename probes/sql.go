package probes

import (
	"context"
	"database/sql"
	"time"

	"github.com/jonwraymond/healthops/health"
)

// SQLConfig configures a SQL probe.
type SQLConfig struct {
	// Timeout bounds one ping. Zero relies on the caller's deadline.
	Timeout time.Duration
}

type sqlProbe struct {
	name   string
	db     *sql.DB
	config SQLConfig
}

// SQL creates a database probe that pings db and reports the connection
// pool state as metadata.
func SQL(name string, db *sql.DB, config ...SQLConfig) health.Probe {
	cfg := SQLConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	return &sqlProbe{name: name, db: db, config: cfg}
}

// Name returns the dependency name.
func (p *sqlProbe) Name() string {
	return p.name
}

// Kind returns health.DependencyDatabase.
func (p *sqlProbe) Kind() health.DependencyType {
	return health.DependencyDatabase
}

// Check pings the database.
func (p *sqlProbe) Check(ctx context.Context) (health.DependencyHealth, error) {
	if p.db == nil {
		return health.DependencyHealth{}, ErrNilDB
	}

	ctx, cancel := withTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	err := p.db.PingContext(ctx)
	elapsed := elapsedMS(start)

	if err != nil {
		return health.UnhealthyDependency(p.name, health.DependencyDatabase, err).
			WithResponseTime(elapsed), nil
	}

	stats := p.db.Stats()
	return health.HealthyDependency(p.name, health.DependencyDatabase).
		WithResponseTime(elapsed).
		WithMetadata(map[string]any{
			"connection_pool": map[string]any{
				"open":   stats.OpenConnections,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
			},
		}), nil
}
