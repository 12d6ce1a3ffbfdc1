package db

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestProvider_CloseBeforeUse(t *testing.T) {
	p := NewProvider(Options{URL: "postgres://localhost/hms"}, zerolog.Nop())
	p.Close()
	p.Close()
	if p.Connected() {
		t.Error("expected provider to report not connected")
	}
}

func TestProvider_DefaultsToSingleConnection(t *testing.T) {
	p := NewProvider(Options{URL: "postgres://localhost/hms"}, zerolog.Nop())
	if p.opts.MaxConns != 1 {
		t.Errorf("expected MaxConns 1, got %d", p.opts.MaxConns)
	}
}

func TestProvider_UnreachableReportsOnce(t *testing.T) {
	p := NewProvider(Options{URL: "://not a url"}, zerolog.Nop())
	var reports int
	p.OnFailure = func(error) { reports++ }

	for i := 0; i < 2; i++ {
		pool, err := p.Pool(context.Background())
		if pool != nil {
			t.Fatal("expected nil pool")
		}
		if !errors.Is(err, ErrNotConnected) {
			t.Fatalf("expected ErrNotConnected, got %v", err)
		}
	}
	if reports != 1 {
		t.Errorf("expected one failure report, got %d", reports)
	}
	if p.Connected() {
		t.Error("expected provider to report not connected")
	}
}

func TestProvider_QuerierUsesScopedConn(t *testing.T) {
	p := NewProvider(Options{URL: "://not a url"}, zerolog.Nop())
	p.OnFailure = func(error) {}

	if _, err := p.Querier(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected without a scoped connection, got %v", err)
	}

	err := p.WithConn(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run when no connection can be acquired")
		return nil
	})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected from WithConn, got %v", err)
	}
}
