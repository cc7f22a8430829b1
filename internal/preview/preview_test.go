package preview_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lusinstrella/karl-dukstein-photography/internal/preview"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
	"github.com/lusinstrella/karl-dukstein-photography/internal/testsupport"
)

func newSite(t *testing.T) string {
	t.Helper()
	site := t.TempDir()
	testsupport.WriteText(t, filepath.Join(site, "index.html"), "<h1>home</h1>")
	testsupport.WriteText(t, filepath.Join(site, "dnc.html"), "<h2>dnc</h2>")
	testsupport.WriteText(t, filepath.Join(site, "data", "sections.json"), `{"dnc":[]}`)
	return site
}

func get(t *testing.T, srv *preview.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	return rec
}

func TestServesSiteFiles(t *testing.T) {
	srv, err := preview.New(newSite(t), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"/", "<h1>home</h1>"},
		{"/dnc.html", "<h2>dnc</h2>"},
		{"/data/sections.json", `{"dnc":[]}`},
	}
	for _, tc := range tests {
		rec := get(t, srv, tc.path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tc.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("%s: unexpected body %q", tc.path, rec.Body.String())
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Fatalf("%s: expected no-store", tc.path)
		}
	}

	if rec := get(t, srv, "/missing.html"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestNewRequiresSiteDir(t *testing.T) {
	_, err := preview.New(filepath.Join(t.TempDir(), "site"), nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv, err := preview.New(newSite(t), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String() + "/dnc.html"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "dnc") {
		t.Fatalf("unexpected body %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
