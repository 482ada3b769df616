package util

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("payload"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	b, err := GetBytes(context.Background(), srv.URL+"/ok", time.Second)
	if err != nil || string(b) != "payload" {
		t.Fatalf("GetBytes = %q, %v", b, err)
	}
	if _, err := GetBytes(context.Background(), srv.URL+"/missing", time.Second); !errors.Is(err, ErrStatus) {
		t.Fatalf("missing: err = %v, want ErrStatus", err)
	}
	if _, err := GetBytes(context.Background(), srv.URL+"/slow", 20*time.Millisecond); err == nil {
		t.Fatal("slow: expected timeout")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("stat = %v, %v", fi, err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("second call: %v", err)
	}
}
