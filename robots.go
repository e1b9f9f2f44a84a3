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
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsFetchTimeout bounds each robots.txt fetch independently of the
// per-page request timeout.
const robotsFetchTimeout = 10 * time.Second

// RobotsCache fetches and caches robots.txt rules per host. A host
// whose robots.txt cannot be fetched or parsed is treated as fully
// allowed, so an unreachable or broken robots.txt never blocks a
// crawl.
type RobotsCache struct {
	mu     sync.Mutex
	client *http.Client
	// hosts maps "host:port" to parsed rules; a nil entry records a
	// fetch failure and means everything is allowed.
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsCache creates an empty robots.txt cache.
func NewRobotsCache() *RobotsCache {
	return &RobotsCache{
		client: &http.Client{Timeout: robotsFetchTimeout},
		hosts:  make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether userAgent may fetch rawURL according to the
// robots.txt of the URL's host. Each host's robots.txt is fetched at
// most once per cache lifetime.
func (rc *RobotsCache) Allowed(rawURL, userAgent string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	rc.mu.Lock()
	data, ok := rc.hosts[u.Host]
	if !ok {
		data = rc.fetch(u.Scheme, u.Host)
		rc.hosts[u.Host] = data
	}
	rc.mu.Unlock()

	if data == nil {
		return true
	}
	return data.TestAgent(u.RequestURI(), userAgent)
}

// fetch retrieves and parses robots.txt for a host. Returns nil when
// the file is missing, unreachable or unparseable.
func (rc *RobotsCache) fetch(scheme, host string) *robotstxt.RobotsData {
	if scheme == "" {
		scheme = "https"
	}
	robotsURL := scheme + "://" + host + "/robots.txt"

	resp, err := rc.client.Get(robotsURL)
	if err != nil {
		log.Printf("robots.txt fetch failed for %s: %v", host, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("robots.txt read failed for %s: %v", host, err)
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		log.Printf("robots.txt parse failed for %s: %v", host, err)
		return nil
	}
	return data
}
