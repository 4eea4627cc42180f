package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	page := `<!DOCTYPE html><html><body><div class="photo-grid"></div></body></html>`
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "photos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "photos", "1_a.jpg"), []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestInjectLiveReload_BeforeBody(t *testing.T) {
	html := []byte("<html><body><p>hi</p></body></html>")
	out := string(InjectLiveReload(html, 1313))

	scriptIdx := strings.Index(out, "<script>")
	bodyIdx := strings.Index(out, "</body>")
	if scriptIdx == -1 || bodyIdx == -1 || scriptIdx > bodyIdx {
		t.Errorf("script not injected before </body>:\n%s", out)
	}
	if !strings.Contains(out, ":1313/__darkroom/ws") {
		t.Errorf("websocket URL missing port:\n%s", out)
	}
}

func TestInjectLiveReload_NoBody(t *testing.T) {
	out := string(InjectLiveReload([]byte("<p>fragment</p>"), 8080))
	if !strings.HasSuffix(out, "</script>") {
		t.Errorf("script not appended:\n%s", out)
	}
}

func TestResolveFilePath(t *testing.T) {
	dir := writeSite(t)
	s := New(Options{SiteRoot: dir})

	tests := []struct {
		urlPath string
		want    string // relative to dir; "" means not found
	}{
		{"/", "index.html"},
		{"/index.html", "index.html"},
		{"/photos/1_a.jpg", filepath.Join("photos", "1_a.jpg")},
		{"/missing.html", ""},
		{"/../etc/passwd", ""},
	}
	for _, tt := range tests {
		got := s.resolveFilePath(tt.urlPath)
		want := ""
		if tt.want != "" {
			want = filepath.Join(dir, tt.want)
		}
		if got != want {
			t.Errorf("resolveFilePath(%q) = %q; want %q", tt.urlPath, got, want)
		}
	}
}

func TestHandleRequest_InjectsIntoHTML(t *testing.T) {
	dir := writeSite(t)
	s := New(Options{SiteRoot: dir, LiveReload: true, Port: 4000})

	rec := httptest.NewRecorder()
	s.handleRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "__darkroom/ws") {
		t.Error("live reload script not injected into HTML response")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q; want text/html", ct)
	}
}

func TestHandleRequest_NoInjectionIntoImages(t *testing.T) {
	dir := writeSite(t)
	s := New(Options{SiteRoot: dir, LiveReload: true, Port: 4000})

	rec := httptest.NewRecorder()
	s.handleRequest(rec, httptest.NewRequest(http.MethodGet, "/photos/1_a.jpg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "__darkroom") {
		t.Error("script injected into non-HTML response")
	}
}

func TestHandleRequest_404(t *testing.T) {
	dir := writeSite(t)
	s := New(Options{SiteRoot: dir})

	rec := httptest.NewRecorder()
	s.handleRequest(rec, httptest.NewRequest(http.MethodGet, "/nope.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()
	// Not running; fill the channel and make sure Broadcast never blocks.
	for i := 0; i < 100; i++ {
		h.Broadcast([]byte("reload"))
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d; want 0", h.ClientCount())
	}
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan struct{}, 8)

	w := NewWatcher([]string{dir}, 50*time.Millisecond, func() {
		fired <- struct{}{}
	})
	go func() {
		_ = w.Start()
	}()
	defer w.Stop()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire")
	}

	// The three rapid writes should have been coalesced; allow at most one
	// trailing callback.
	time.Sleep(200 * time.Millisecond)
	extra := len(fired)
	if extra > 1 {
		t.Errorf("watcher fired %d extra times; want at most 1", extra)
	}
}
