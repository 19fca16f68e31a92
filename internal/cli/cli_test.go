package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/me/shelfctl/internal/mockserver"
	"github.com/me/shelfctl/internal/store"
)

// startTestBackend starts a mock backend over an in-memory store and
// returns its URL.
func startTestBackend(t *testing.T) string {
	t.Helper()
	srvLogger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := store.NewSQLiteStore(":memory:", srvLogger)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := mockserver.New(mockserver.Config{JWTSecret: "test-secret"}, st, srvLogger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

// runCLI executes the command tree with the given args, capturing stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var errBuf bytes.Buffer
	root.SetOut(&errBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := root.Execute()

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)

	return string(out), err
}

// seedViaCLI registers a library, an owner, an admin and a reader through
// the CLI itself. HOME must already point at a temp dir.
func seedViaCLI(t *testing.T, url string) {
	t.Helper()

	if _, err := runCLI(t, "--server", url, "register-owner",
		"--name", "Olive Owner", "--email", "owner@lib.test",
		"--password", "ownerpw", "--library", "City Library"); err != nil {
		t.Fatalf("register-owner: %v", err)
	}

	out, err := runCLI(t, "--server", url, "libraries")
	if err != nil {
		t.Fatalf("libraries: %v", err)
	}
	if !strings.Contains(out, "City Library") {
		t.Fatalf("libraries output missing City Library:\n%s", out)
	}

	for _, m := range []struct{ name, email string }{
		{"Ada Admin", "admin@lib.test"},
		{"Rita Reader", "reader@lib.test"},
	} {
		if _, err := runCLI(t, "--server", url, "register",
			"--name", m.name, "--email", m.email,
			"--password", "memberpw", "--library-id", "1"); err != nil {
			t.Fatalf("register %s: %v", m.email, err)
		}
	}

	loginAs(t, url, "owner@lib.test", "ownerpw")
	if _, err := runCLI(t, "--server", url, "admin", "assign", "admin@lib.test"); err != nil {
		t.Fatalf("admin assign: %v", err)
	}
}

func loginAs(t *testing.T, url, email, password string) {
	t.Helper()
	out, err := runCLI(t, "--server", url, "login", "--email", email, "--password", password)
	if err != nil {
		t.Fatalf("login %s: %v\noutput: %s", email, err, out)
	}
}

func TestTrimKeepsRunesWhole(t *testing.T) {
	got := trim("Преступление и наказание", 10)
	if !utf8.ValidString(got) {
		t.Errorf("trim produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 10 {
		t.Errorf("trimmed to %d runes, want 10: %q", n, got)
	}
	if got := trim("short", 10); got != "short" {
		t.Errorf("trim(%q) = %q, want unchanged", "short", got)
	}
}

func TestLoginStoresSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startTestBackend(t)
	seedViaCLI(t, url)

	loginAs(t, url, "reader@lib.test", "memberpw")

	out, err := runCLI(t, "--server", url, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "reader@lib.test") || !strings.Contains(out, "Reader") {
		t.Errorf("whoami output:\n%s", out)
	}

	if _, err := runCLI(t, "--server", url, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, _ = runCLI(t, "--server", url, "whoami")
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("whoami after logout:\n%s", out)
	}
}

func TestLoginReplacesExistingSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startTestBackend(t)
	seedViaCLI(t, url)

	loginAs(t, url, "owner@lib.test", "ownerpw")

	// Switching accounts needs no logout in between: a fresh login
	// replaces the stored session.
	loginAs(t, url, "reader@lib.test", "memberpw")

	out, err := runCLI(t, "--server", url, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "reader@lib.test") || !strings.Contains(out, "Reader") {
		t.Errorf("whoami after account switch:\n%s", out)
	}
	if strings.Contains(out, "owner@lib.test") {
		t.Errorf("old session still visible:\n%s", out)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startTestBackend(t)
	seedViaCLI(t, url)

	_, err := runCLI(t, "--server", url, "login", "--email", "reader@lib.test", "--password", "nope")
	if err == nil {
		t.Fatal("login with wrong password succeeded")
	}
	if !strings.Contains(err.Error(), "invalid email or password") {
		t.Errorf("error = %v", err)
	}
}

func TestRoleGatingBlocksBeforeNetwork(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startTestBackend(t)
	seedViaCLI(t, url)

	loginAs(t, url, "reader@lib.test", "memberpw")

	// Point at an unreachable server: the permission check must fire
	// before any request is attempted.
	_, err := runCLI(t, "--server", "http://127.0.0.1:1/api",
		"books", "add", "--isbn", "978-0", "--title", "Nope")
	if err == nil {
		t.Fatal("reader was allowed to add a book")
	}
	if !strings.Contains(err.Error(), "may not add-book") {
		t.Errorf("error = %v", err)
	}

	// Anonymous users get the login hint.
	if _, err := runCLI(t, "--server", url, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = runCLI(t, "--server", url, "history")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("anonymous history error = %v", err)
	}
}

func TestCatalogCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startTestBackend(t)
	seedViaCLI(t, url)

	loginAs(t, url, "admin@lib.test", "memberpw")
	if _, err := runCLI(t, "--server", url, "books", "add",
		"--isbn", "978-1", "--title", "The Go Programming Language",
		"--author", "Donovan", "--copies", "3"); err != nil {
		t.Fatalf("books add: %v", err)
	}
	if _, err := runCLI(t, "--server", url, "books", "add",
		"--isbn", "978-2", "--title", "Unix Programming", "--author", "Stevens"); err != nil {
		t.Fatalf("books add: %v", err)
	}

	out, err := runCLI(t, "--server", url, "books", "list")
	if err != nil {
		t.Fatalf("books list: %v", err)
	}
	if !strings.Contains(out, "978-1") || !strings.Contains(out, "3/3") {
		t.Errorf("books list output:\n%s", out)
	}

	out, err = runCLI(t, "--server", url, "books", "list", "--search", "stevens")
	if err != nil {
		t.Fatalf("books list --search: %v", err)
	}
	if strings.Contains(out, "978-1") || !strings.Contains(out, "978-2") {
		t.Errorf("search output:\n%s", out)
	}

	if _, err := runCLI(t, "--server", url, "books", "update", "978-2",
		"--title", "Advanced Programming in the UNIX Environment"); err != nil {
		t.Fatalf("books update: %v", err)
	}
	if _, err := runCLI(t, "--server", url, "books", "remove", "978-2", "--copies", "1"); err != nil {
		t.Fatalf("books remove: %v", err)
	}
	out, _ = runCLI(t, "--server", url, "books", "list")
	if strings.Contains(out, "978-2") {
		t.Errorf("978-2 still listed after removal:\n%s", out)
	}
}

func TestIssueRequestCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startTestBackend(t)
	seedViaCLI(t, url)

	loginAs(t, url, "admin@lib.test", "memberpw")
	if _, err := runCLI(t, "--server", url, "books", "add",
		"--isbn", "978-1", "--title", "Book One", "--copies", "1"); err != nil {
		t.Fatalf("books add: %v", err)
	}

	loginAs(t, url, "reader@lib.test", "memberpw")
	if _, err := runCLI(t, "--server", url, "request", "978-1"); err != nil {
		t.Fatalf("request: %v", err)
	}

	// A second request for the same book is refused without a round trip.
	_, err := runCLI(t, "--server", url, "request", "978-1")
	if err == nil || !strings.Contains(err.Error(), "already have an open request") {
		t.Errorf("duplicate request error = %v", err)
	}

	loginAs(t, url, "admin@lib.test", "memberpw")
	out, err := runCLI(t, "--server", url, "requests", "list", "--pending")
	if err != nil {
		t.Fatalf("requests list: %v", err)
	}
	if !strings.Contains(out, "978-1") || !strings.Contains(out, "Rita Reader") {
		t.Errorf("requests list output:\n%s", out)
	}

	if _, err := runCLI(t, "--server", url, "requests", "approve", "1"); err != nil {
		t.Fatalf("requests approve: %v", err)
	}

	loginAs(t, url, "reader@lib.test", "memberpw")
	out, err = runCLI(t, "--server", url, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "978-1") || !strings.Contains(out, "Approve") {
		t.Errorf("history output:\n%s", out)
	}
	if !strings.Contains(out, "6 days") && !strings.Contains(out, "1 week") {
		t.Errorf("history due column missing relative due date:\n%s", out)
	}
}
