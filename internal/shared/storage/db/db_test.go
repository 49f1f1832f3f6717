package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// useMockDriver routes Open through a sqlmock connection registered under a
// per-test DSN.
func useMockDriver(t *testing.T) {
	t.Helper()
	dsn := "sqlmock_" + t.Name()
	mockDB, _, err := sqlmock.NewWithDSN(dsn)
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	prev := openDB
	openDB = func(_, _ string) (*sql.DB, error) {
		return sql.Open("sqlmock", dsn)
	}
	t.Cleanup(func() {
		openDB = prev
		mockDB.Close()
	})
}

func resetSingleton(t *testing.T) {
	t.Helper()
	sharedMu.Lock()
	sharedPool = nil
	sharedMu.Unlock()
	t.Cleanup(func() {
		sharedMu.Lock()
		sharedPool = nil
		sharedMu.Unlock()
	})
}

func TestDefaultsPerProfile(t *testing.T) {
	if got := Defaults(ProfileLambda).MaxOpenConns; got != 2 {
		t.Fatalf("expected lambda pool of 2, got %d", got)
	}
	if got := Defaults(ProfileMigrate).MaxOpenConns; got != 1 {
		t.Fatalf("expected migrate pool of 1, got %d", got)
	}
	if Defaults("unknown") != Defaults(ProfileServer) {
		t.Fatalf("expected unknown profile to use server defaults")
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "not-a-duration")

	opts := OptionsFromEnv(Defaults(ProfileServer))
	if opts.MaxOpenConns != 7 || opts.MaxIdleConns != 3 {
		t.Fatalf("unexpected pool sizes %+v", opts)
	}
	if opts.ConnMaxLifetime != 20*time.Minute || opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("unexpected lifetimes %+v", opts)
	}
	if opts.PingTimeout != Defaults(ProfileServer).PingTimeout {
		t.Fatalf("expected malformed ping timeout to be ignored, got %s", opts.PingTimeout)
	}
}

func TestConnectAppliesPoolSize(t *testing.T) {
	useMockDriver(t)

	pool, err := Connect(context.Background(), "postgres://ignored", Options{MaxOpenConns: 7, PingTimeout: time.Second})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pool.Close()
	if got := pool.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
}

func TestOpenRejectsEmptyURL(t *testing.T) {
	if _, err := Open("  ", Defaults(ProfileServer)); err == nil {
		t.Fatalf("expected error for empty DATABASE_URL")
	}
}

func TestOpenDoesNotConnect(t *testing.T) {
	useMockDriver(t)

	pool, err := Open("postgres://ignored", Options{MaxOpenConns: 3})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer pool.Close()
	if got := pool.Stats().OpenConnections; got != 0 {
		t.Fatalf("expected no connections before first use, got %d", got)
	}
}

func TestGetSingletonReusesPool(t *testing.T) {
	useMockDriver(t)
	resetSingleton(t)

	first, err := GetSingleton(context.Background(), "postgres://ignored", Defaults(ProfileLambda))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := GetSingleton(context.Background(), "postgres://ignored", Defaults(ProfileLambda))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same pool")
	}
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	useMockDriver(t)
	resetSingleton(t)
	working := openDB
	calls := 0
	openDB = func(name, dsn string) (*sql.DB, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("driver unavailable")
		}
		return working(name, dsn)
	}

	if _, err := GetSingleton(context.Background(), "postgres://ignored", Defaults(ProfileLambda)); err == nil {
		t.Fatalf("expected first call to fail")
	}
	pool, err := GetSingleton(context.Background(), "postgres://ignored", Defaults(ProfileLambda))
	if err != nil || pool == nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}
