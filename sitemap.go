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
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/antchfx/xmlquery"
)

// maxSitemapDepth bounds sitemap-index recursion.
const maxSitemapDepth = 2

// FetchSitemapURLs fetches a sitemap and returns the page URLs it
// lists. Sitemap indexes are followed one level deep. The caller's
// client is used so sitemap traffic shares the crawl's transport
// settings.
func FetchSitemapURLs(ctx context.Context, client *http.Client, sitemapURL string) ([]string, error) {
	return fetchSitemap(ctx, client, sitemapURL, 0)
}

func fetchSitemap(ctx context.Context, client *http.Client, sitemapURL string, depth int) ([]string, error) {
	if depth >= maxSitemapDepth {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap from %s: %w", sitemapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap %s returned status %d", sitemapURL, resp.StatusCode)
	}

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sitemap %s: %w", sitemapURL, err)
	}

	var urls []string
	for _, n := range xmlquery.Find(doc, "//urlset/url/loc") {
		if loc := strings.TrimSpace(n.InnerText()); loc != "" {
			urls = append(urls, loc)
		}
	}

	// A sitemap index lists child sitemaps instead of pages.
	for _, n := range xmlquery.Find(doc, "//sitemapindex/sitemap/loc") {
		loc := strings.TrimSpace(n.InnerText())
		if loc == "" {
			continue
		}
		child, err := fetchSitemap(ctx, client, loc, depth+1)
		if err != nil {
			continue
		}
		urls = append(urls, child...)
	}

	return urls, nil
}

// TryDefaultSitemaps probes the conventional sitemap locations of an
// origin ("scheme://host"). It never fails; hosts without sitemaps
// yield an empty slice.
func TryDefaultSitemaps(ctx context.Context, client *http.Client, origin string) []string {
	locations := []string{
		origin + "/sitemap.xml",
		origin + "/sitemap_index.xml",
	}

	var urls []string
	for _, loc := range locations {
		found, err := FetchSitemapURLs(ctx, client, loc)
		if err != nil {
			continue
		}
		urls = append(urls, found...)
		if len(urls) > 0 {
			break
		}
	}
	return urls
}

// originOf returns "scheme://host" for an absolute URL, or "".
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
