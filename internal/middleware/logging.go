package middleware

import (
	"log"
	"net/http"
	"os"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog is chi's request logger with credentials removed from the
// logged URI.
var AccessLog = NewAccessLog(log.New(os.Stdout, "", log.LstdFlags))

// NewAccessLog returns an access logger writing to logger. A ?token= query
// parameter (websocket auth) is logged as REDACTED.
func NewAccessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return chimw.RequestLogger(redactingFormatter{
		next: &chimw.DefaultLogFormatter{Logger: logger, NoColor: true},
	})
}

type redactingFormatter struct {
	next chimw.LogFormatter
}

func (f redactingFormatter) NewLogEntry(r *http.Request) chimw.LogEntry {
	q := r.URL.Query()
	if !q.Has("token") {
		return f.next.NewLogEntry(r)
	}
	q.Set("token", "REDACTED")
	u := *r.URL
	u.RawQuery = q.Encode()

	logged := r.WithContext(r.Context())
	logged.URL = &u
	logged.RequestURI = u.RequestURI()
	return f.next.NewLogEntry(logged)
}
