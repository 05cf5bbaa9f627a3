// Package middleware holds the HTTP middleware wrapped around the server mux.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/scribe/internal/cache"
	"github.com/debemdeboas/scribe/internal/config"
)

type Middleware func(http.Handler) http.Handler

// Chain applies mws so the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Logging attaches a per-request logger carrying a request id and writes one
// access log line per request.
func Logging(l zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request")
		})(next)
		h = RequestID(h)
		return hlog.NewHandler(l)(h)
	}
}

// RequestID propagates X-Request-ID, generating one when the client sent none.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(config.HRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(config.HRequestID, id)

		log := zerolog.Ctx(r.Context())
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})

		next.ServeHTTP(w, r)
	})
}

// Compress gzips responses for clients that accept it. Paths with one of the
// except prefixes are passed through untouched (event streams must not buffer).
func Compress(except ...string) Middleware {
	return func(next http.Handler) http.Handler {
		gz := gzhttp.GzipHandler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range except {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			gz.ServeHTTP(w, r)
		})
	}
}

func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}

// CacheHeaders disables caching for dynamic responses and sets an ETag for
// static files registered with cache.SetStaticHash.
func CacheHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")

		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			if r.Header.Get("If-None-Match") == hash {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		next.ServeHTTP(w, r)
	})
}
