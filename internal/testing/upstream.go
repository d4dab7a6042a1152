package testing

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// Upstream is an in-process stand-in for the Eurostat dissemination APIs.
// Routes are matched by path prefix; every request is recorded.
type Upstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   []route
	requests []*http.Request
	gzip     bool
}

type route struct {
	prefix  string
	handler http.HandlerFunc
}

// NewUpstream starts a fake upstream server.
// Automatically registers cleanup via t.Cleanup().
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()

	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Server.Close)
	return u
}

// URL returns the server base URL joined with path.
func (u *Upstream) URL(path string) string {
	return u.Server.URL + path
}

// Handle registers a handler for requests whose path starts with prefix.
// Later registrations win over earlier ones with the same prefix.
func (u *Upstream) Handle(prefix string, handler http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes = append([]route{{prefix: prefix, handler: handler}}, u.routes...)
}

// Respond registers a fixed status and body for prefix.
func (u *Upstream) Respond(prefix string, status int, contentType, body string) {
	u.Handle(prefix, func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// EnableGzip makes the server compress bodies for clients that accept gzip.
func (u *Upstream) EnableGzip() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.gzip = true
}

// Requests returns a copy of every request received so far.
func (u *Upstream) Requests() []*http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]*http.Request(nil), u.requests...)
}

// Count returns how many requests hit a path starting with prefix.
func (u *Upstream) Count(prefix string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, r := range u.requests {
		if strings.HasPrefix(r.URL.Path, prefix) {
			n++
		}
	}
	return n
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r.Clone(r.Context()))
	var handler http.HandlerFunc
	for _, rt := range u.routes {
		if strings.HasPrefix(r.URL.Path, rt.prefix) {
			handler = rt.handler
			break
		}
	}
	compress := u.gzip && strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
	u.mu.Unlock()

	if handler == nil {
		http.NotFound(w, r)
		return
	}
	if !compress {
		handler(w, r)
		return
	}

	rec := httptest.NewRecorder()
	handler(rec, r)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(rec.Body.Bytes())
	_ = gz.Close()
	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Encoding", "gzip")
	w.WriteHeader(rec.Code)
	_, _ = w.Write(buf.Bytes())
}
