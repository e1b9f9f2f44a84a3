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

// Package testutil provides shared test utilities for linkgraph
// tests: canned HTML sites served over httptest.
package testutil

import (
	"net/http"
	"net/http/httptest"
)

// RobotsDisallowPrivate is a robots.txt that fences off /private.
const RobotsDisallowPrivate = `
User-agent: *
Allow: /
Disallow: /private
`

// Site is a canned website: path -> HTML body. Paths must start
// with "/".
type Site map[string]string

// NewSiteServer starts an httptest server that serves the given pages
// as text/html. Unknown paths return 404.
func NewSiteServer(site Site) *httptest.Server {
	return httptest.NewServer(siteHandler(site, ""))
}

// NewSiteServerWithRobots is NewSiteServer plus a /robots.txt body.
func NewSiteServerWithRobots(site Site, robots string) *httptest.Server {
	return httptest.NewServer(siteHandler(site, robots))
}

func siteHandler(site Site, robots string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" && robots != "" {
			w.WriteHeader(200)
			w.Write([]byte(robots))
			return
		}
		body, ok := site[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		w.Write([]byte(body))
	})
}

// HTMLPage wraps a body fragment in a minimal HTML document with a
// title, handy for building link fixtures.
func HTMLPage(title, body string) string {
	return `<!DOCTYPE html>
<html>
<head><title>` + title + `</title></head>
<body>
` + body + `
</body>
</html>`
}
