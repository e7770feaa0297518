package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2.0,
		BreakerEnabled:      false,
	}
}

func retryAll(error) Classification {
	return Classification{Retryable: true, RecordFailure: true}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "test.op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, retryAll)

	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestExecuteStopsAtMaxAttempts(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	wantErr := errors.New("still down")
	err := executor.Execute(context.Background(), "test.op", func(context.Context) error {
		calls++
		return wantErr
	}, retryAll)

	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestExecuteDoesNotRetryFatalErrors(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "test.op", func(context.Context) error {
		calls++
		return errors.New("bad request")
	}, func(error) Classification {
		return Classification{Retryable: false, RecordFailure: false}
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("fatal errors must not retry, calls = %d", calls)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 3
	cfg.BreakerFailureRatio = 0.5
	cfg.RetryMaxAttempts = 1
	executor := NewExecutor(cfg)

	failing := func(context.Context) error { return errors.New("provider down") }
	for i := 0; i < 3; i++ {
		_ = executor.Execute(context.Background(), "test.breaker", failing, retryAll)
	}

	err := executor.Execute(context.Background(), "test.breaker", failing, retryAll)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}
