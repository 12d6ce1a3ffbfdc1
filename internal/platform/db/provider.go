package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ErrNotConnected is returned while the database cannot be reached.
var ErrNotConnected = errors.New("database not connected")

// Options describes the single database the process talks to.
type Options struct {
	URL      string
	MaxConns int32
	Schema   string
}

// Provider lazily opens one connection pool and hands it to every
// repository. With MaxConns of 1 (the default) all callers share a single
// live connection. Nothing is dialed until the first Pool call.
type Provider struct {
	opts   Options
	logger zerolog.Logger

	mu       sync.Mutex
	pool     *pgxpool.Pool
	reported bool

	// OnFailure is told about a connectivity failure once per outage.
	OnFailure func(err error)
}

func NewProvider(opts Options, logger zerolog.Logger) *Provider {
	if opts.MaxConns < 1 {
		opts.MaxConns = 1
	}
	p := &Provider{opts: opts, logger: logger}
	p.OnFailure = func(err error) {
		p.logger.Error().Err(err).Msg("cannot connect to hospital database")
	}
	return p
}

// Pool returns the memoized pool, opening it on first use or after Close.
func (p *Provider) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}

	pool, err := p.open(ctx)
	if err != nil {
		if !p.reported {
			p.reported = true
			if p.OnFailure != nil {
				p.OnFailure(err)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	p.pool = pool
	p.reported = false
	p.logger.Info().Str("schema", p.opts.Schema).Int32("max_conns", p.opts.MaxConns).Msg("connected to database")
	return pool, nil
}

func (p *Provider) open(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(p.opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = p.opts.MaxConns
	cfg.MinConns = 0
	if p.opts.Schema != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = p.opts.Schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Connected reports whether a pool is currently open.
func (p *Provider) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pool != nil
}

// Close releases the pool. Calling it again, or before any Pool call, is a no-op.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool == nil {
		return
	}
	p.pool.Close()
	p.pool = nil
	p.logger.Info().Msg("database connection closed")
}
