package adapthttp

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

func TestLoggingMiddleware_WritesStatusLine(t *testing.T) {
	_, h := newTestServer(t, true)

	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices/no-such-id", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing invoice, got %d", w.Code)
	}

	// One line per request: method, path, recorded status, duration.
	line := regexp.MustCompile(`GET /dashboard/invoices/no-such-id 404 \d+(\.\d+)?(ns|µs|ms|s)`)
	if !line.MatchString(buf.String()) {
		t.Errorf("expected a method/path/status/duration line, got %q", buf.String())
	}
}

func TestViewCache(t *testing.T) {
	c := newViewCache()

	if _, ok := c.Get("/dashboard/invoices"); ok {
		t.Fatal("empty cache must miss")
	}

	gen := c.Generation("/dashboard/invoices")
	c.Set("/dashboard/invoices", gen, []byte("body"))
	body, ok := c.Get("/dashboard/invoices")
	if !ok || string(body) != "body" {
		t.Fatalf("expected cached body, got %q (%v)", body, ok)
	}

	c.Invalidate("/dashboard/invoices", "/login")
	if _, ok := c.Get("/dashboard/invoices"); ok {
		t.Error("invalidated view still cached")
	}
}

func TestViewCache_DropsWriteAfterInvalidation(t *testing.T) {
	c := newViewCache()

	// A reader observes the generation, then a mutation invalidates the view
	// before the reader stores its (now stale) body.
	gen := c.Generation("/dashboard/invoices")
	c.Invalidate("/dashboard/invoices")
	c.Set("/dashboard/invoices", gen, []byte("stale"))

	if _, ok := c.Get("/dashboard/invoices"); ok {
		t.Fatal("stale body cached over an invalidation")
	}

	// A write under the fresh generation still lands.
	gen = c.Generation("/dashboard/invoices")
	c.Set("/dashboard/invoices", gen, []byte("fresh"))
	body, ok := c.Get("/dashboard/invoices")
	if !ok || string(body) != "fresh" {
		t.Fatalf("expected fresh body, got %q (%v)", body, ok)
	}
}
