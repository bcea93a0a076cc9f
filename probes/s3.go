package probes

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonwraymond/healthops/health"
)

// S3API is the subset of the S3 client the storage probe needs. *s3.Client
// satisfies it; tests substitute fakes.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Config configures an S3 probe.
type S3Config struct {
	// Timeout bounds one check. Zero relies on the caller's deadline.
	Timeout time.Duration
}

type s3Probe struct {
	name   string
	client S3API
	bucket string
	config S3Config
}

// S3 creates a storage probe that heads bucket to verify the object store
// is reachable and the bucket accessible.
func S3(name string, client S3API, bucket string, config ...S3Config) health.Probe {
	cfg := S3Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	return &s3Probe{name: name, client: client, bucket: bucket, config: cfg}
}

// S3FromEnv creates an S3 probe with a client built from the ambient AWS
// configuration: environment variables, shared config files, or an
// instance role.
func S3FromEnv(ctx context.Context, name, bucket string, config ...S3Config) (health.Probe, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("probes: load aws config: %w", err)
	}
	return S3(name, s3.NewFromConfig(awsCfg), bucket, config...), nil
}

// Name returns the dependency name.
func (p *s3Probe) Name() string {
	return p.name
}

// Kind returns health.DependencyStorage.
func (p *s3Probe) Kind() health.DependencyType {
	return health.DependencyStorage
}

// Check heads the bucket.
func (p *s3Probe) Check(ctx context.Context) (health.DependencyHealth, error) {
	if p.client == nil {
		return health.DependencyHealth{}, ErrNilClient
	}

	ctx, cancel := withTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(p.bucket),
	})
	elapsed := elapsedMS(start)

	if err != nil {
		return health.UnhealthyDependency(p.name, health.DependencyStorage, err).
			WithResponseTime(elapsed), nil
	}

	return health.HealthyDependency(p.name, health.DependencyStorage).
		WithResponseTime(elapsed).
		WithMetadata(map[string]any{"bucket": p.bucket}), nil
}
