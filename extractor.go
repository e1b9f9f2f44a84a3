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
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxTitleLen  = 500
	maxMetaLen   = 1000
	maxAnchorLen = 500
)

// Link is a single anchor extracted from a page. Href is always
// absolute; IsInternal is relative to the crawl's target domain.
type Link struct {
	Href       string `json:"href"`
	Anchor     string `json:"anchor"`
	Rel        string `json:"rel"`
	IsInternal bool   `json:"is_internal"`
	IsNofollow bool   `json:"is_nofollow"`
}

// Page is the extracted content of one crawled document.
type Page struct {
	URL             string   `json:"url"`
	Domain          string   `json:"domain"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Canonical       string   `json:"canonical,omitempty"`
	H1              []string `json:"h1,omitempty"`
	Links           []Link   `json:"links"`
	InternalCount   int      `json:"internal_count"`
	ExternalCount   int      `json:"external_count"`
	FollowCount     int      `json:"follow_count"`
	NofollowCount   int      `json:"nofollow_count"`
}

// Extract parses an HTML document and pulls out its metadata and
// every http(s) anchor, classified against targetDomain. Links keep
// document order. An empty targetDomain falls back to the page's own
// domain.
func Extract(body []byte, pageURL, targetDomain string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	page := &Page{
		URL:    pageURL,
		Domain: DomainOf(pageURL),
	}

	target := NormalizeBaseDomain(targetDomain)
	if target == "" {
		target = page.Domain
	}

	page.Title = truncate(strings.TrimSpace(doc.Find("title").First().Text()), maxTitleLen)

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.MetaDescription = truncate(strings.TrimSpace(desc), maxMetaLen)
	} else if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		page.MetaDescription = truncate(strings.TrimSpace(desc), maxMetaLen)
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if abs, err := Canonicalize(href, pageURL); err == nil {
			page.Canonical = abs
		}
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			page.H1 = append(page.H1, text)
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}

		abs, err := resolveHref(href, pageURL)
		if err != nil {
			return
		}

		rel := strings.ToLower(strings.Join(strings.Fields(s.AttrOr("rel", "")), " "))
		page.Links = append(page.Links, Link{
			Href:       abs,
			Anchor:     truncate(strings.TrimSpace(s.Text()), maxAnchorLen),
			Rel:        rel,
			IsInternal: SameBaseDomain(abs, target),
			IsNofollow: hasRelToken(rel, "nofollow"),
		})
	})

	for _, l := range page.Links {
		if l.IsInternal {
			page.InternalCount++
		} else {
			page.ExternalCount++
		}
		if l.IsNofollow {
			page.NofollowCount++
		} else {
			page.FollowCount++
		}
	}

	return page, nil
}

// resolveHref makes href absolute against pageURL without applying
// full canonicalization, so extracted links preserve their original
// form. Non-http(s) schemes are rejected.
func resolveHref(href, pageURL string) (string, error) {
	u, err := urlParser.ParseRef(pageURL, href)
	if err != nil {
		return "", ErrInvalidURL
	}
	abs := u.Href(true)
	if !strings.HasPrefix(abs, "http://") && !strings.HasPrefix(abs, "https://") {
		return "", ErrInvalidURL
	}
	return abs, nil
}

// hasRelToken matches a whole token inside a space-separated rel
// value, so rel="nofollowme" does not count as nofollow.
func hasRelToken(rel, token string) bool {
	for _, t := range strings.Fields(rel) {
		if t == token {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
