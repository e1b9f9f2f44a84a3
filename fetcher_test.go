// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linkgraph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"
)

func TestFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><title>hi</title></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(DefaultUserAgent, 5*time.Second)
	res, err := f.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res == nil {
		t.Fatal("Fetch returned nil result for a 200 response")
	}
	if res.FinalURL != srv.URL+"/page" {
		t.Errorf("unexpected FinalURL: %q", res.FinalURL)
	}
	if !strings.Contains(string(res.Body), "<title>hi</title>") {
		t.Errorf("unexpected body: %q", res.Body)
	}
}

func TestFetcherFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>landed</html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(DefaultUserAgent, 5*time.Second)
	res, err := f.Fetch(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res == nil {
		t.Fatal("Fetch returned nil result after redirect")
	}
	if res.FinalURL != srv.URL+"/new" {
		t.Errorf("FinalURL = %q, expected %q", res.FinalURL, srv.URL+"/new")
	}
}

func TestFetcherSkipsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<p>error</p>"))
	}))
	defer srv.Close()

	f := NewFetcher(DefaultUserAgent, 5*time.Second)
	res, err := f.Fetch(context.Background(), srv.URL+"/broken")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res != nil {
		t.Errorf("expected nil result for 500 response, got %+v", res)
	}
}

func TestFetcherSkipsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewFetcher(DefaultUserAgent, 5*time.Second)
	res, err := f.Fetch(context.Background(), srv.URL+"/gone")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res != nil {
		t.Errorf("expected nil result for unreachable host, got %+v", res)
	}
}

func TestFetcherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := NewFetcher(DefaultUserAgent, 100*time.Millisecond)
	start := time.Now()
	res, err := f.Fetch(context.Background(), srv.URL+"/slow")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res != nil {
		t.Error("expected nil result for timed-out request")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestFetcherDecodesDeclaredCharset(t *testing.T) {
	text := "café désolé"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<html><body>" + encoded + "</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(DefaultUserAgent, 5*time.Second)
	res, err := f.Fetch(context.Background(), srv.URL+"/latin1")
	if err != nil || res == nil {
		t.Fatalf("Fetch failed: res=%v err=%v", res, err)
	}
	if !strings.Contains(string(res.Body), text) {
		t.Errorf("body not decoded to UTF-8: %q", res.Body)
	}
}
