package db

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const DBConnKey contextKey = "db_conn"

// Querier is the statement surface shared by pools and acquired connections.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// ConnFromContext retrieves the connection scoped by WithConn or ConnMiddleware.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// Querier returns the connection scoped to ctx, or the provider's pool.
func (p *Provider) Querier(ctx context.Context) (Querier, error) {
	if c := ConnFromContext(ctx); c != nil {
		return c, nil
	}
	return p.Pool(ctx)
}

// WithConn acquires one connection for the duration of fn. Repositories
// called with the derived context run on that connection; it is released
// when fn returns.
func (p *Provider) WithConn(ctx context.Context, fn func(ctx context.Context) error) error {
	if ConnFromContext(ctx) != nil {
		return fn(ctx)
	}
	pool, err := p.Pool(ctx)
	if err != nil {
		return err
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return fn(context.WithValue(ctx, DBConnKey, conn))
}

// ConnMiddleware scopes one acquired connection to each request.
func ConnMiddleware(p *Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			pool, err := p.Pool(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			c.SetRequest(c.Request().WithContext(context.WithValue(ctx, DBConnKey, conn)))
			return next(c)
		}
	}
}
