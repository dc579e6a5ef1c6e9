package expenses

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/crucial707/expense-tracker/cmd/cli/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := &cobra.Command{Use: "expense", SilenceUsage: true, SilenceErrors: true}
	InitExpenses(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// loggedIn points the CLI at h and stores a token for it.
func loggedIn(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token on %s", r.URL.Path)
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("EXPENSE_API_URL", srv.URL)
	if err := os.WriteFile(filepath.Join(home, ".expense_token"), []byte("tok"), 0o600); err != nil {
		t.Fatal(err)
	}
}

const lunch = `{"id":5,"amount":12.5,"description":"lunch","category":"Food","date":"2025-04-10","user_id":1,"created_at":"2025-04-10T12:00:00Z"}`

func TestAdd_SendsExactAmount(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/expenses" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var raw map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if string(raw["amount"]) != "12.5" {
			t.Errorf("expected numeric amount 12.5, got %s", raw["amount"])
		}
		if string(raw["date"]) != `"2025-04-10"` {
			t.Errorf("unexpected date %s", raw["date"])
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(lunch))
	})

	out, err := run(t, "expenses", "add", "--amount", "12.50", "--category", "Food", "--description", "lunch", "--date", "2025-04-10")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, want := range []string{"Food", "12.50", "lunch", "2025-04-10"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAdd_RejectsBadInputLocally(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected, got %s", r.URL.Path)
	})

	if _, err := run(t, "expenses", "add", "--amount", "abc", "--category", "Food"); err == nil {
		t.Fatal("expected invalid amount error")
	}
	if _, err := run(t, "expenses", "add", "--amount", "1", "--category", "Food", "--date", "10/04/2025"); err == nil {
		t.Fatal("expected invalid date error")
	}
}

func TestList_TableOutput(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "1" || q.Get("size") != "2" || q.Get("sort") != "amount,asc" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"items":[` + lunch + `],"page":1,"size":2,"total_items":3,"total_pages":2}`))
	})

	out, err := run(t, "expenses", "list", "--page", "1", "--size", "2", "--sort", "amount,asc")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "lunch") || !strings.Contains(out, "Page 2 of 2 (3 expenses)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestList_Empty(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[],"page":0,"size":20,"total_items":0,"total_pages":0}`))
	})

	out, err := run(t, "expenses", "list")
	if err != nil || !strings.Contains(out, "No expenses found.") {
		t.Fatalf("list = %q, %v", out, err)
	}
}

func TestGet_JSONOutput(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/expenses/5" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(lunch))
	})

	out, err := run(t, "expenses", "get", "5", "--json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, `"category": "Food"`) {
		t.Fatalf("expected indented json, got:\n%s", out)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/expenses/9" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"expense not found"}`))
	})

	_, err := run(t, "expenses", "update", "9", "--amount", "20", "--category", "Travel")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/expenses/5" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := run(t, "expenses", "delete", "5")
	if err != nil || !strings.Contains(out, "Deleted expense 5") {
		t.Fatalf("delete = %q, %v", out, err)
	}

	if _, err := run(t, "expenses", "delete", "-3"); err == nil {
		t.Fatal("expected invalid id error")
	}
}

func TestRequiresLogin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := run(t, "expenses", "list")
	if !errors.Is(err, config.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
