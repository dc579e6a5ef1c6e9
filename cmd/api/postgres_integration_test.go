//go:build integration

package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/crucial707/expense-tracker/internal/models"
)

// startPostgres runs a throwaway PostgreSQL container and returns its address.
func startPostgres(t *testing.T) pgAddr {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "expensedb",
			"POSTGRES_USER":     "expenseuser",
			"POSTGRES_PASSWORD": "expensepass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}
	return pgAddr{host: host, port: port.Port()}
}

type pgAddr struct {
	host string
	port string
}

func TestAPI_PostgresFlow(t *testing.T) {
	pg := startPostgres(t)

	cfg := testConfig()
	cfg.DBDriver = "postgres"
	cfg.DBHost = pg.host
	cfg.DBPort = pg.port
	cfg.DBName = "expensedb"
	cfg.DBUser = "expenseuser"
	cfg.DBPass = "expensepass"
	cfg.DBSSLMode = "disable"

	st, err := openStores(cfg)
	if err != nil {
		t.Fatalf("openStores: %v", err)
	}
	defer st.close()

	srv := newTestServer(t, cfg, st)
	anon := &client{t: t, srv: srv}
	alice := anon.signUp("Alice", "alice@example.com")

	if code := anon.do(http.MethodPost, "/api/auth/register",
		map[string]string{"name": "Again", "email": "alice@example.com", "password": "password123"}, nil); code != http.StatusConflict {
		t.Errorf("duplicate register: got %d, want 409", code)
	}

	for _, body := range []map[string]any{
		{"amount": "100.00", "category": "Food", "date": "2025-04-22"},
		{"amount": "50.00", "category": "Travel", "date": "2025-04-23"},
		{"amount": "999.99", "category": "Food", "date": "2025-05-01"},
	} {
		if code := alice.do(http.MethodPost, "/api/expenses", body, nil); code != http.StatusCreated {
			t.Fatalf("create: got %d", code)
		}
	}

	var report models.MonthlyReport
	if code := alice.do(http.MethodGet, "/api/expenses/report/monthly?year=2025&month=4", nil, &report); code != http.StatusOK {
		t.Fatalf("report: got %d", code)
	}
	if !report.Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("total = %s, want 150", report.Total)
	}
	if !report.ByCategory["Travel"].Equal(decimal.NewFromInt(50)) {
		t.Errorf("by category = %v", report.ByCategory)
	}
}
