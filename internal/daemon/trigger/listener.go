package trigger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
)

// Response bodies.
const (
	BodyOK      = "OK"
	BodyIgnored = "Ignored: Settings focused"
)

// ListenerBindError reports that the trigger port could not be bound.
type ListenerBindError struct {
	Addr string
	Err  error
}

func (e *ListenerBindError) Error() string {
	return fmt.Sprintf("bind trigger listener on %s: %v", e.Addr, e.Err)
}

func (e *ListenerBindError) Unwrap() error { return e.Err }

// Listener serves trigger requests on the loopback interface.
type Listener struct {
	addr   string
	router *Router
	srv    *http.Server
	ln     net.Listener
}

// NewListener creates a listener for 127.0.0.1:port. Port 0 picks a free
// port.
func NewListener(port int, router *Router) *Listener {
	l := &Listener{
		addr:   net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		router: router,
	}
	l.srv = &http.Server{
		Handler:           l.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return l
}

// Handler returns the trigger routes wrapped in a permissive CORS policy.
func (l *Listener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", l.handleSearch)
	mux.HandleFunc("/settings", l.handleSettings)
	return cors.AllowAll().Handler(mux)
}

// Start binds the port and serves in the background.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return &ListenerBindError{Addr: l.addr, Err: err}
	}
	l.ln = ln
	log.Printf("[trigger] Listening on http://%s", ln.Addr())

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[trigger] Serve error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the requested one before Start.
func (l *Listener) Addr() string {
	if l.ln != nil {
		return l.ln.Addr().String()
	}
	return l.addr
}

// Bound reports whether Start succeeded.
func (l *Listener) Bound() bool {
	return l.ln != nil
}

// Shutdown stops serving.
func (l *Listener) Shutdown(ctx context.Context) error {
	if l.ln == nil {
		return nil
	}
	return l.srv.Shutdown(ctx)
}

func (l *Listener) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	ack := l.router.Search(context.WithoutCancel(r.Context()), query)
	if ack.Ignored {
		writeText(w, BodyIgnored)
		return
	}
	writeText(w, BodyOK)
}

func (l *Listener) handleSettings(w http.ResponseWriter, r *http.Request) {
	l.router.Settings(context.WithoutCancel(r.Context()))
	writeText(w, BodyOK)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
