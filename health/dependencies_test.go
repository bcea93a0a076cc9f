package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func healthyProbe(name string, kind DependencyType) Probe {
	return NewProbeFunc(name, kind, func(ctx context.Context) (DependencyHealth, error) {
		return HealthyDependency(name, kind), nil
	})
}

// TestDependencySet_Register verifies the registration rules.
func TestDependencySet_Register(t *testing.T) {
	set := NewDependencySet()

	if err := set.Register(healthyProbe("orders-db", DependencyDatabase)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := set.Register(nil); !errors.Is(err, ErrNilProbe) {
		t.Errorf("expected ErrNilProbe, got %v", err)
	}

	if err := set.Register(healthyProbe("", DependencyDatabase)); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	if err := set.Register(healthyProbe("bad-kind", "postgres")); !errors.Is(err, ErrInvalidDependencyType) {
		t.Errorf("expected ErrInvalidDependencyType, got %v", err)
	}

	err := set.Register(healthyProbe("orders-db", DependencyCache))
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "orders-db") {
		t.Errorf("expected offending name in error, got %v", err)
	}

	if set.Len() != 1 {
		t.Errorf("rejected registrations must not be stored, got len %d", set.Len())
	}
}

// TestDependencySet_NamesOrdered verifies registration order is kept.
func TestDependencySet_NamesOrdered(t *testing.T) {
	set := NewDependencySet()
	names := []string{"orders-db", "redis-cache", "kafka-broker", "billing-api"}
	kinds := []DependencyType{DependencyDatabase, DependencyCache, DependencyMessageQueue, DependencyExternalAPI}

	for i, name := range names {
		if err := set.Register(healthyProbe(name, kinds[i])); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	got := set.Names()
	if len(got) != len(names) {
		t.Fatalf("expected %d names, got %d", len(names), len(got))
	}
	for i, name := range names {
		if got[i] != name {
			t.Errorf("expected names[%d] = %q, got %q", i, name, got[i])
		}
	}
}

// TestDependencySet_RunAll_Empty verifies an empty set produces an empty,
// non-nil result slice.
func TestDependencySet_RunAll_Empty(t *testing.T) {
	set := NewDependencySet()

	results := set.RunAll(context.Background())
	if results == nil {
		t.Fatal("expected non-nil result slice")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

// TestDependencySet_RunAll_OrderPreserved verifies results come back in
// registration order even when probes finish out of order.
func TestDependencySet_RunAll_OrderPreserved(t *testing.T) {
	set := NewDependencySet()

	slow := NewProbeFunc("slow-db", DependencyDatabase,
		func(ctx context.Context) (DependencyHealth, error) {
			time.Sleep(60 * time.Millisecond)
			return HealthyDependency("slow-db", DependencyDatabase), nil
		})
	if err := set.Register(slow); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := set.Register(healthyProbe("fast-cache", DependencyCache)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	results := set.RunAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "slow-db" {
		t.Errorf("expected results[0] = slow-db, got %q", results[0].Name)
	}
	if results[1].Name != "fast-cache" {
		t.Errorf("expected results[1] = fast-cache, got %q", results[1].Name)
	}
}

// TestDependencySet_RunAll_ErrorSynthesized verifies a probe error becomes
// an unhealthy result with the declared kind.
func TestDependencySet_RunAll_ErrorSynthesized(t *testing.T) {
	set := NewDependencySet()

	failing := NewProbeFunc("orders-db", DependencyDatabase,
		func(ctx context.Context) (DependencyHealth, error) {
			return DependencyHealth{}, errors.New("connection refused")
		})
	if err := set.Register(failing); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	results := set.RunAll(context.Background())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %v", r.Status)
	}
	if r.Name != "orders-db" || r.Type != DependencyDatabase {
		t.Errorf("expected declared identity, got %q/%q", r.Name, r.Type)
	}
	if r.Error != "connection refused" {
		t.Errorf("expected probe error message, got %q", r.Error)
	}
	if r.ResponseTime != nil {
		t.Error("synthesized results carry no response time")
	}
	if r.LastChecked.IsZero() {
		t.Error("expected last checked to be stamped")
	}
}

// TestDependencySet_RunAll_PanicIsolated verifies a panicking probe is
// converted to an unhealthy result without touching its siblings.
func TestDependencySet_RunAll_PanicIsolated(t *testing.T) {
	set := NewDependencySet()

	panicking := NewProbeFunc("kafka-broker", DependencyMessageQueue,
		func(ctx context.Context) (DependencyHealth, error) {
			panic("nil pointer dereference")
		})
	if err := set.Register(panicking); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := set.Register(healthyProbe("redis-cache", DependencyCache)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	results := set.RunAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Status != StatusUnhealthy {
		t.Errorf("expected panicking probe unhealthy, got %v", results[0].Status)
	}
	if !strings.Contains(results[0].Error, "panicked") {
		t.Errorf("expected panic message, got %q", results[0].Error)
	}
	if results[1].Status != StatusHealthy {
		t.Errorf("expected sibling unaffected, got %v", results[1].Status)
	}
}

// TestDependencySet_RunAll_Timeout verifies a stuck probe is cut off by
// the per-probe timeout.
func TestDependencySet_RunAll_Timeout(t *testing.T) {
	set := NewDependencySet(DependencySetConfig{Timeout: 30 * time.Millisecond})

	stuck := NewProbeFunc("orders-db", DependencyDatabase,
		func(ctx context.Context) (DependencyHealth, error) {
			time.Sleep(500 * time.Millisecond)
			return HealthyDependency("orders-db", DependencyDatabase), nil
		})
	if err := set.Register(stuck); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	start := time.Now()
	results := set.RunAll(context.Background())
	elapsed := time.Since(start)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %v", results[0].Status)
	}
	if !strings.Contains(results[0].Error, "timeout") {
		t.Errorf("expected timeout message, got %q", results[0].Error)
	}
	if elapsed >= 400*time.Millisecond {
		t.Errorf("expected timeout to cut the probe off, took %v", elapsed)
	}
}

// TestDependencySet_RunAll_Concurrent verifies probes run in parallel
// rather than sequentially.
func TestDependencySet_RunAll_Concurrent(t *testing.T) {
	set := NewDependencySet()

	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("dep-%d", i)
		probe := NewProbeFunc(name, DependencyExternalAPI,
			func(ctx context.Context) (DependencyHealth, error) {
				time.Sleep(100 * time.Millisecond)
				return HealthyDependency(name, DependencyExternalAPI), nil
			})
		if err := set.Register(probe); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	start := time.Now()
	results := set.RunAll(context.Background())
	elapsed := time.Since(start)

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	// Sequential execution would take at least 400ms.
	if elapsed >= 350*time.Millisecond {
		t.Errorf("expected concurrent execution, took %v", elapsed)
	}
}

// TestDependencySet_ConcurrentRegisterAndRun verifies the set survives
// racing registration and execution.
func TestDependencySet_ConcurrentRegisterAndRun(t *testing.T) {
	set := NewDependencySet()
	if err := set.Register(healthyProbe("seed", DependencyCache)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = set.Register(healthyProbe(fmt.Sprintf("dep-%d", i), DependencyCache))
			} else {
				_ = set.RunAll(context.Background())
			}
		}(i)
	}
	wg.Wait()

	names := set.Names()
	if names[0] != "seed" {
		t.Errorf("expected first registered name to stay first, got %q", names[0])
	}
}
