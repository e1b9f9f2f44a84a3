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
	"strings"
	"testing"
)

const extractorFixture = `<!DOCTYPE html>
<html>
<head>
<title>  Fixture Page  </title>
<meta name="description" content="A fixture for the extractor.">
<link rel="canonical" href="/canonical-path">
</head>
<body>
<h1>Main Heading</h1>
<h1>   </h1>
<a href="/about">About us</a>
<a href="https://www.example.com/pricing">Pricing</a>
<a href="https://blog.example.com/post">Blog post</a>
<a href="https://other.com/review" rel="nofollow">A review</a>
<a href="https://partner.com/page" rel="NoFollow sponsored">Partner</a>
<a href="#section">Jump</a>
<a href="javascript:void(0)">Click</a>
<a href="mailto:team@example.com">Mail</a>
<a href="">Empty</a>
</body>
</html>`

func TestExtract(t *testing.T) {
	page, err := Extract([]byte(extractorFixture), "https://example.com/page", "example.com")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if page.URL != "https://example.com/page" {
		t.Errorf("unexpected URL: %q", page.URL)
	}
	if page.Domain != "example.com" {
		t.Errorf("unexpected Domain: %q", page.Domain)
	}
	if page.Title != "Fixture Page" {
		t.Errorf("unexpected Title: %q", page.Title)
	}
	if page.MetaDescription != "A fixture for the extractor." {
		t.Errorf("unexpected MetaDescription: %q", page.MetaDescription)
	}
	if page.Canonical != "https://example.com/canonical-path" {
		t.Errorf("unexpected Canonical: %q", page.Canonical)
	}
	if len(page.H1) != 1 || page.H1[0] != "Main Heading" {
		t.Errorf("unexpected H1: %v", page.H1)
	}

	// Fragment-only, javascript:, mailto: and empty hrefs are skipped.
	if len(page.Links) != 5 {
		t.Fatalf("expected 5 links, got %d: %+v", len(page.Links), page.Links)
	}

	// Links keep document order.
	if !strings.HasSuffix(page.Links[0].Href, "/about") {
		t.Errorf("first link out of order: %q", page.Links[0].Href)
	}
	if page.Links[0].Anchor != "About us" {
		t.Errorf("unexpected anchor: %q", page.Links[0].Anchor)
	}

	// Relative links resolve against the page URL.
	if page.Links[0].Href != "https://example.com/about" {
		t.Errorf("relative link not resolved: %q", page.Links[0].Href)
	}

	for i, expected := range []struct {
		internal bool
		nofollow bool
	}{
		{true, false},  // /about
		{true, false},  // www.example.com/pricing
		{true, false},  // blog.example.com subdomain
		{false, true},  // other.com rel=nofollow
		{false, true},  // partner.com rel="NoFollow sponsored"
	} {
		l := page.Links[i]
		if l.IsInternal != expected.internal {
			t.Errorf("link %d (%s): IsInternal = %v, expected %v", i, l.Href, l.IsInternal, expected.internal)
		}
		if l.IsNofollow != expected.nofollow {
			t.Errorf("link %d (%s): IsNofollow = %v, expected %v", i, l.Href, l.IsNofollow, expected.nofollow)
		}
	}

	if page.InternalCount != 3 || page.ExternalCount != 2 {
		t.Errorf("counts internal=%d external=%d, expected 3/2", page.InternalCount, page.ExternalCount)
	}
	if page.FollowCount != 3 || page.NofollowCount != 2 {
		t.Errorf("counts follow=%d nofollow=%d, expected 3/2", page.FollowCount, page.NofollowCount)
	}
	if page.InternalCount+page.ExternalCount != len(page.Links) {
		t.Error("internal+external must equal total links")
	}
	if page.FollowCount+page.NofollowCount != len(page.Links) {
		t.Error("follow+nofollow must equal total links")
	}
}

func TestExtractRelTokenMatching(t *testing.T) {
	html := `<html><body>
<a href="https://a.com/x" rel="nofollowme">not a real nofollow</a>
<a href="https://b.com/x" rel="noopener nofollow noreferrer">real nofollow</a>
</body></html>`

	page, err := Extract([]byte(html), "https://example.com/", "example.com")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(page.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(page.Links))
	}
	if page.Links[0].IsNofollow {
		t.Error("rel=nofollowme must not count as nofollow")
	}
	if !page.Links[1].IsNofollow {
		t.Error("nofollow token inside rel list not detected")
	}
}

func TestExtractOgDescriptionFallback(t *testing.T) {
	html := `<html><head>
<meta property="og:description" content="OG description here">
</head><body></body></html>`

	page, err := Extract([]byte(html), "https://example.com/", "example.com")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if page.MetaDescription != "OG description here" {
		t.Errorf("og:description fallback failed: %q", page.MetaDescription)
	}
}

func TestExtractTruncation(t *testing.T) {
	longTitle := strings.Repeat("t", 600)
	html := "<html><head><title>" + longTitle + "</title></head><body></body></html>"

	page, err := Extract([]byte(html), "https://example.com/", "example.com")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(page.Title) != 500 {
		t.Errorf("title not truncated: len=%d", len(page.Title))
	}
}

func TestExtractEmptyTargetUsesPageDomain(t *testing.T) {
	html := `<html><body>
<a href="https://example.com/in">internal</a>
<a href="https://other.com/out">external</a>
</body></html>`

	page, err := Extract([]byte(html), "https://example.com/", "")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !page.Links[0].IsInternal || page.Links[1].IsInternal {
		t.Errorf("empty target domain should classify against the page's own domain: %+v", page.Links)
	}
}
