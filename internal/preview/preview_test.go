package preview

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func pageWith(meta string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head>%s<title>Deal Page</title></head><body></body></html>`, meta)
	}
}

func TestFetchImageURL_OpenGraph(t *testing.T) {
	srv := httptest.NewServer(pageWith(`<meta property="og:image" content="https://cdn.example.com/deal.jpg">`))
	defer srv.Close()

	f := New(2 * time.Second)
	img, err := f.FetchImageURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchImageURL() error = %v", err)
	}
	if img != "https://cdn.example.com/deal.jpg" {
		t.Errorf("img = %q", img)
	}
}

func TestFetchImageURL_TwitterFallback(t *testing.T) {
	srv := httptest.NewServer(pageWith(`<meta name="twitter:image" content="https://cdn.example.com/tw.jpg">`))
	defer srv.Close()

	f := New(2 * time.Second)
	img, err := f.FetchImageURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchImageURL() error = %v", err)
	}
	if img != "https://cdn.example.com/tw.jpg" {
		t.Errorf("img = %q", img)
	}
}

func TestFetchImageURL_NoImage(t *testing.T) {
	srv := httptest.NewServer(pageWith(``))
	defer srv.Close()

	f := New(2 * time.Second)
	img, err := f.FetchImageURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchImageURL() error = %v", err)
	}
	if img != "" {
		t.Errorf("img = %q, want empty", img)
	}
}

func TestFetchImageURL_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(2 * time.Second)
	if _, err := f.FetchImageURL(context.Background(), srv.URL); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestFetchImageURL_RateLimited(t *testing.T) {
	srv := httptest.NewServer(pageWith(``))
	defer srv.Close()

	f := New(2 * time.Second)
	var limited bool
	for i := 0; i < 10; i++ {
		if _, err := f.FetchImageURL(context.Background(), srv.URL); err != nil {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected the limiter to reject a burst of 10 fetches")
	}
}
