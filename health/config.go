package health

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML-loadable monitor configuration. String values may
// reference environment variables as ${VAR}; a reference to an unset
// variable fails the load.
type FileConfig struct {
	// Service is the reporting service name.
	Service string `yaml:"service"`

	// Version is the reporting service version.
	Version string `yaml:"version"`

	// Environment names the deployment environment. Falls back to the
	// ENVIRONMENT variable when empty.
	Environment string `yaml:"environment"`

	// Build names the deployed build. Falls back to the BUILD_VERSION
	// variable when empty.
	Build string `yaml:"build"`

	// Thresholds are the system status cutoffs.
	Thresholds ThresholdsConfig `yaml:"thresholds"`

	// ProbeTimeoutSec bounds each dependency probe, in seconds.
	ProbeTimeoutSec int `yaml:"probe_timeout_sec"`

	// TestTimeoutSec bounds each integration test, in seconds.
	TestTimeoutSec int `yaml:"test_timeout_sec"`

	// CacheTTLSec is how long probe and test batches may be reused, in
	// seconds. Zero disables reuse.
	CacheTTLSec int `yaml:"cache_ttl_sec"`
}

// ThresholdsConfig carries the status cutoffs in the config file. A zero
// field keeps its default, since a literal zero cutoff would trip on any
// sample.
type ThresholdsConfig struct {
	MemoryUnhealthy    float64 `yaml:"memory_unhealthy"`
	MemoryDegraded     float64 `yaml:"memory_degraded"`
	CPUUnhealthy       float64 `yaml:"cpu_unhealthy"`
	CPUDegraded        float64 `yaml:"cpu_degraded"`
	ErrorRateUnhealthy float64 `yaml:"error_rate_unhealthy"`
	ErrorRateDegraded  float64 `yaml:"error_rate_degraded"`
}

// LoadConfig reads a YAML monitor configuration from path. ${VAR}
// references are expanded first, and environment/build fall back to the
// ENVIRONMENT and BUILD_VERSION variables when the file leaves them empty.
func LoadConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("health: read config: %w", err)
	}

	expanded, err := expandEnvStrict(string(data))
	if err != nil {
		return FileConfig{}, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("health: parse config: %w", err)
	}

	cfg.fillFromEnv()
	return cfg, nil
}

// FromEnv builds a minimal configuration from the process environment,
// reading ENVIRONMENT and BUILD_VERSION.
func FromEnv(service, version string) FileConfig {
	cfg := FileConfig{Service: service, Version: version}
	cfg.fillFromEnv()
	return cfg
}

func (c *FileConfig) fillFromEnv() {
	if c.Environment == "" {
		c.Environment = os.Getenv("ENVIRONMENT")
	}
	if c.Build == "" {
		c.Build = os.Getenv("BUILD_VERSION")
	}
}

// MonitorConfig converts the file form into a MonitorConfig. The runtime
// collaborators are supplied by the caller.
func (c FileConfig) MonitorConfig(sampler ResourceSampler, metrics MetricsSource) MonitorConfig {
	return MonitorConfig{
		Service:      c.Service,
		Version:      c.Version,
		Sampler:      sampler,
		Metrics:      metrics,
		Thresholds:   c.thresholds(),
		ProbeTimeout: time.Duration(c.ProbeTimeoutSec) * time.Second,
		TestTimeout:  time.Duration(c.TestTimeoutSec) * time.Second,
		CacheTTL:     time.Duration(c.CacheTTLSec) * time.Second,
		Environment:  c.Environment,
		Build:        c.Build,
	}
}

func (c FileConfig) thresholds() Thresholds {
	t := DefaultThresholds()
	if c.Thresholds.MemoryUnhealthy > 0 {
		t.MemoryUnhealthy = c.Thresholds.MemoryUnhealthy
	}
	if c.Thresholds.MemoryDegraded > 0 {
		t.MemoryDegraded = c.Thresholds.MemoryDegraded
	}
	if c.Thresholds.CPUUnhealthy > 0 {
		t.CPUUnhealthy = c.Thresholds.CPUUnhealthy
	}
	if c.Thresholds.CPUDegraded > 0 {
		t.CPUDegraded = c.Thresholds.CPUDegraded
	}
	if c.Thresholds.ErrorRateUnhealthy > 0 {
		t.ErrorRateUnhealthy = c.Thresholds.ErrorRateUnhealthy
	}
	if c.Thresholds.ErrorRateDegraded > 0 {
		t.ErrorRateDegraded = c.Thresholds.ErrorRateDegraded
	}
	return t
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvStrict expands environment variables in s.
//
// Semantics:
//   - `$VAR` and `${VAR}` are expanded via os.ExpandEnv.
//   - If `${VAR}` is present but VAR is missing from the environment, it errors.
//   - `$$` emits a literal `$` (escape hatch).
func expandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00HEALTHOPS_CONFIG_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(s, -1) {
		key := match[1]
		if _, ok := os.LookupEnv(key); !ok {
			missing[key] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("%w: %s", ErrMissingEnvVar, strings.Join(keys, ", "))
	}

	s = os.ExpandEnv(s)
	s = strings.ReplaceAll(s, dollarSentinel, "$")
	return s, nil
}
