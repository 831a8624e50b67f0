package trigger

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsearch/popsearch/internal/daemon/overlay"
	"github.com/popsearch/popsearch/internal/desktop"
)

type fakePrimary struct {
	mu           sync.Mutex
	focused      bool
	shows        int
	cursorAtShow func()
}

func (p *fakePrimary) Show(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shows++
	if p.cursorAtShow != nil {
		p.cursorAtShow()
	}
	return nil
}

func (p *fakePrimary) VisibleAndFocused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focused
}

type created struct {
	text  string
	point desktop.Point
}

type fakeOverlays struct {
	mu      sync.Mutex
	created []created
}

func (o *fakeOverlays) Create(_ context.Context, text string, point desktop.Point) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, created{text, point})
	return "id", nil
}

func newRouter() (*Router, *desktop.Fake, *fakeOverlays, *fakePrimary) {
	fake := desktop.NewFake(desktop.Monitor{
		Bounds:   desktop.Rect{W: 1920, H: 1080},
		WorkArea: desktop.Rect{W: 1920, H: 1080},
	})
	overlays := &fakeOverlays{}
	primary := &fakePrimary{}
	return &Router{Screen: fake, Overlays: overlays, Primary: primary, CursorGap: 20}, fake, overlays, primary
}

func get(t *testing.T, h http.Handler, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestSearchCreatesOverlayAtCursor(t *testing.T) {
	router, fake, overlays, _ := newRouter()
	fake.SetCursor(desktop.Point{X: 500, Y: 480})
	h := NewListener(0, router).Handler()

	resp := get(t, h, "/search?q=hello%20world")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, BodyOK, body(t, resp))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, []created{{"hello world", desktop.Point{X: 500, Y: 500}}}, overlays.created)
}

func TestSearchIgnoredWhileSettingsFocused(t *testing.T) {
	fake := desktop.NewFake(desktop.Monitor{
		Bounds:   desktop.Rect{W: 1920, H: 1080},
		WorkArea: desktop.Rect{W: 1920, H: 1080},
	})
	lifecycle := overlay.New(overlay.Config{Windows: fake, Size: desktop.Size{W: 400, H: 60}})
	primary := &fakePrimary{focused: true}
	router := &Router{Screen: fake, Overlays: lifecycle, Primary: primary}
	h := NewListener(0, router).Handler()

	resp := get(t, h, "/search?q=x")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, BodyIgnored, body(t, resp))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, fake.Windows())
	assert.Equal(t, overlay.Closed, lifecycle.State())
}

func TestSettingsShowsPrimary(t *testing.T) {
	router, _, overlays, primary := newRouter()
	h := NewListener(0, router).Handler()

	resp := get(t, h, "/settings")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, BodyOK, body(t, resp))
	assert.Equal(t, 1, primary.shows)
	assert.Empty(t, overlays.created)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	router, _, overlays, primary := newRouter()
	h := NewListener(0, router).Handler()

	for _, path := range []string{"/", "/search/extra", "/favicon.ico"} {
		resp := get(t, h, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	assert.Empty(t, overlays.created)
	assert.Zero(t, primary.shows)
}

func TestForwarded(t *testing.T) {
	text := "forwarded"
	tests := []struct {
		name     string
		req      Request
		shows    int
		overlays int
	}{
		{"search only", Request{Search: &text}, 0, 1},
		{"settings only", Request{Settings: true}, 1, 0},
		{"both", Request{Search: &text, Settings: true}, 1, 1},
		{"nothing", Request{}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, overlays, primary := newRouter()
			ack := router.Forwarded(context.Background(), tt.req)
			assert.True(t, ack.OK)
			assert.Equal(t, tt.shows, primary.shows)
			assert.Len(t, overlays.created, tt.overlays)
		})
	}
}

func TestForwardedSearchSkipsSuppression(t *testing.T) {
	router, _, overlays, primary := newRouter()
	primary.focused = true
	text := "x"

	ack := router.Forwarded(context.Background(), Request{Search: &text})
	assert.False(t, ack.Ignored)
	assert.Len(t, overlays.created, 1)
}

func TestForwardedCapturesPointerOnReceipt(t *testing.T) {
	router, fake, overlays, primary := newRouter()
	fake.SetCursor(desktop.Point{X: 10, Y: 10})
	primary.cursorAtShow = func() { fake.SetCursor(desktop.Point{X: 900, Y: 900}) }
	text := "x"

	router.Forwarded(context.Background(), Request{Search: &text, Settings: true})
	require.Len(t, overlays.created, 1)
	assert.Equal(t, desktop.Point{X: 10, Y: 30}, overlays.created[0].point)
}

func TestStartBindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	router, _, _, _ := newRouter()
	l := NewListener(port, router)
	err = l.Start()
	var bindErr *ListenerBindError
	require.ErrorAs(t, err, &bindErr)
	assert.False(t, l.Bound())
	assert.NoError(t, l.Shutdown(context.Background()))
}

func TestStartServesLoopback(t *testing.T) {
	router, _, overlays, _ := newRouter()
	l := NewListener(0, router)
	require.NoError(t, l.Start())
	defer l.Shutdown(context.Background())

	resp, err := http.Get("http://" + l.Addr() + "/search?q=cats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, BodyOK, body(t, resp))
	assert.Len(t, overlays.created, 1)
}
