package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/scribe/internal/cache"
	"github.com/debemdeboas/scribe/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(strings.Repeat("hello world ", 500)))
})

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.NotFoundHandler(), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("Expected outer,inner, got %v", order)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	var seenID string
	h := Logging(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).Info().Msg("inside")
		seenID = w.Header().Get(config.HRequestID)
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("Generates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

		id := rec.Header().Get(config.HRequestID)
		if id == "" {
			t.Fatal("Expected generated request id")
		}
		if id != seenID {
			t.Errorf("Expected handler to see id %q, got %q", id, seenID)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected 2 log lines, got %d: %q", len(lines), buf.String())
		}

		var access map[string]any
		if err := json.Unmarshal([]byte(lines[1]), &access); err != nil {
			t.Fatalf("Failed to decode access log: %v", err)
		}
		if access["request_id"] != id {
			t.Errorf("Expected request_id %q in access log, got %v", id, access["request_id"])
		}
		if access["status"] != float64(http.StatusTeapot) {
			t.Errorf("Expected status 418, got %v", access["status"])
		}
		if access["path"] != "/posts" {
			t.Errorf("Expected path /posts, got %v", access["path"])
		}
	})

	t.Run("Propagates client request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(config.HRequestID, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Header().Get(config.HRequestID) != "abc-123" {
			t.Errorf("Expected request id 'abc-123', got %q", rec.Header().Get(config.HRequestID))
		}
		if !strings.Contains(buf.String(), `"request_id":"abc-123"`) {
			t.Errorf("Expected request id in logs, got %q", buf.String())
		}
	})
}

func TestCompress(t *testing.T) {
	h := Compress("/events")(okHandler)

	t.Run("Gzips when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("Expected gzip encoding, got %q", rec.Header().Get("Content-Encoding"))
		}

		zr, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("Failed to open gzip body: %v", err)
		}
		body, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("Failed to read gzip body: %v", err)
		}
		if !strings.HasPrefix(string(body), "hello world") {
			t.Errorf("Unexpected body %q", body[:20])
		}
	})

	t.Run("Plain without Accept-Encoding", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

		if rec.Header().Get("Content-Encoding") != "" {
			t.Errorf("Expected no encoding, got %q", rec.Header().Get("Content-Encoding"))
		}
	})

	t.Run("Excepted prefix is not compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "" {
			t.Errorf("Expected no encoding for /events, got %q", rec.Header().Get("Content-Encoding"))
		}
	})
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Frame-Options") != "deny" {
		t.Errorf("Expected X-Frame-Options deny, got %q", rec.Header().Get("X-Frame-Options"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("Expected nosniff, got %q", rec.Header().Get("X-Content-Type-Options"))
	}
}

func TestCacheHeaders(t *testing.T) {
	cache.SetStaticHash("/static/test-cache-headers.css", "etag-1")
	h := CacheHeaders(okHandler)

	t.Run("Dynamic route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

		if rec.Header().Get(config.HCacheControl) != "no-cache" {
			t.Errorf("Expected no-cache, got %q", rec.Header().Get(config.HCacheControl))
		}
		if rec.Header().Get(config.HETag) != "" {
			t.Errorf("Expected no ETag, got %q", rec.Header().Get(config.HETag))
		}
	})

	t.Run("Static file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/test-cache-headers.css", nil))

		if rec.Header().Get(config.HETag) != "etag-1" {
			t.Errorf("Expected ETag etag-1, got %q", rec.Header().Get(config.HETag))
		}
		if !strings.Contains(rec.Header().Get(config.HCacheControl), "max-age") {
			t.Errorf("Expected max-age, got %q", rec.Header().Get(config.HCacheControl))
		}
	})

	t.Run("Static file not modified", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/test-cache-headers.css", nil)
		req.Header.Set("If-None-Match", "etag-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotModified {
			t.Errorf("Expected 304, got %d", rec.Code)
		}
	})
}
