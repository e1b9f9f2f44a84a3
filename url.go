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

// Package linkgraph implements a polite, bounded-concurrency web crawler
// and the link-graph analysis built on top of it: page fetching, link
// extraction, backlink classification and authority metrics.
package linkgraph

import (
	"errors"
	"net/url"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var (
	// ErrInvalidURL is returned when a URL cannot be parsed or does not
	// use the http or https scheme.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrMissingHost is returned when a URL parses but has no host.
	ErrMissingHost = errors.New("URL has no host")
)

// urlParser is a WHATWG-compliant URL parser used for all URL
// normalization. Configured to percent-encode single percent signs so
// URLs like "/100%" are handled the way browsers handle them.
var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// Canonicalize normalizes a URL into its canonical crawl form:
// lowercase scheme and host, fragment removed, query preserved
// verbatim, and no trailing slash on the path except for the root
// path. If base is non-empty, relative references are resolved
// against it first. Non-http(s) URLs are rejected.
func Canonicalize(rawURL, base string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidURL
	}

	var parsed *whatwgUrl.Url
	var err error
	if base != "" {
		parsed, err = urlParser.ParseRef(base, rawURL)
	} else {
		parsed, err = urlParser.Parse(rawURL)
	}
	if err != nil {
		return "", ErrInvalidURL
	}

	// Round-trip through net/url so the rest of the normalization can
	// use stdlib fields. Href(true) drops the fragment.
	u, err := url.Parse(parsed.Href(true))
	if err != nil {
		return "", ErrInvalidURL
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	host := strings.ToLower(u.Host)
	if host == "" {
		return "", ErrMissingHost
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimRight(path, "/")
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(path)
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	return b.String(), nil
}

// DomainOf extracts the normalized domain from a URL: lowercase host
// with any leading "www." stripped. Non-standard ports are kept so
// that hosts on explicit ports stay distinct.
func DomainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if port := u.Port(); port != "" && port != "80" && port != "443" {
		return host + ":" + port
	}
	return host
}

// NormalizeBaseDomain normalizes a domain given either as a bare
// domain ("WWW.Example.com") or as a full URL. The result is a
// lowercase host without a leading "www.".
func NormalizeBaseDomain(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "://") {
		return DomainOf(s)
	}
	host := strings.ToLower(s)
	host = strings.TrimPrefix(host, "www.")
	host = strings.Trim(host, "/")
	return host
}

// SameBaseDomain reports whether rawURL belongs to the base domain
// identified by target. A URL matches when its domain equals the
// target or is a subdomain of it; the check runs in both directions
// so "example.com" matches "blog.example.com" seeds and vice versa.
// target may be a bare domain or a full URL.
func SameBaseDomain(rawURL, target string) bool {
	d := DomainOf(rawURL)
	t := NormalizeBaseDomain(target)
	if d == "" || t == "" {
		return false
	}
	return d == t || strings.HasSuffix(d, "."+t) || strings.HasSuffix(t, "."+d)
}
