package middleware

import (
	"log"
	"net/http"
	"net/url"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request. Query strings are redacted
// before logging: the beacon close route carries the access token as a
// query parameter, which must never end up in log files.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Printf("%s %s %d %s", r.Method, redactedURL(r.URL), ww.Status(), time.Since(start))
	})
}

func redactedURL(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	q := u.Query()
	for key := range q {
		if key == "access_token" {
			q.Set(key, "REDACTED")
		}
	}
	return u.Path + "?" + q.Encode()
}
