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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestRobotsCacheAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	rc := NewRobotsCache()

	if !rc.Allowed(srv.URL+"/public", DefaultUserAgent) {
		t.Error("expected /public to be allowed")
	}
	if rc.Allowed(srv.URL+"/private", DefaultUserAgent) {
		t.Error("expected /private to be disallowed")
	}
	if rc.Allowed(srv.URL+"/private/sub", DefaultUserAgent) {
		t.Error("expected /private/sub to be disallowed")
	}
}

func TestRobotsCacheAgentSpecific(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: BadBot\nDisallow: /\n\nUser-agent: *\nAllow: /\n"))
	}))
	defer srv.Close()

	rc := NewRobotsCache()

	if rc.Allowed(srv.URL+"/page", "BadBot") {
		t.Error("expected BadBot to be disallowed everywhere")
	}
	if !rc.Allowed(srv.URL+"/page", "GoodBot") {
		t.Error("expected GoodBot to be allowed")
	}
}

func TestRobotsCacheMissingFileAllowsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	rc := NewRobotsCache()
	if !rc.Allowed(srv.URL+"/anything", DefaultUserAgent) {
		t.Error("expected missing robots.txt to allow everything")
	}
}

func TestRobotsCacheUnreachableHostAllowsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	rc := NewRobotsCache()
	if !rc.Allowed(srv.URL+"/anything", DefaultUserAgent) {
		t.Error("expected unreachable robots.txt to allow everything")
	}
}

func TestRobotsCacheFetchesOncePerHost(t *testing.T) {
	var fetches int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			atomic.AddInt64(&fetches, 1)
		}
		w.Write([]byte("User-agent: *\nAllow: /\n"))
	}))
	defer srv.Close()

	rc := NewRobotsCache()
	for i := 0; i < 5; i++ {
		rc.Allowed(srv.URL+"/page", DefaultUserAgent)
	}

	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("expected 1 robots.txt fetch, got %d", got)
	}
}
