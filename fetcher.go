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
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// DefaultMaxBodySize caps how many response bytes a single fetch reads.
const DefaultMaxBodySize = 10 * 1024 * 1024

// FetchResult is a successfully fetched HTML document. FinalURL is the
// URL after following redirects.
type FetchResult struct {
	FinalURL string
	Body     []byte
}

// Fetcher performs polite HTTP GETs: it sends a fixed User-Agent,
// follows redirects, caps the response body and decodes non-UTF-8
// documents. Failures are skips, not errors: a page that cannot be
// fetched must never abort a crawl.
type Fetcher struct {
	Client      *http.Client
	UserAgent   string
	MaxBodySize int
}

// NewFetcher creates a Fetcher with the given identity and per-request
// timeout.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:      &http.Client{Timeout: timeout},
		UserAgent:   userAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Fetch retrieves rawURL. It returns (nil, nil) when the page should
// be skipped: transport errors, timeouts and non-200 responses. A
// non-nil error only signals a request that could not be constructed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Printf("fetch failed for %s: %v", rawURL, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("skipping %s: status %d", rawURL, resp.StatusCode)
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.MaxBodySize)))
	if err != nil {
		log.Printf("read failed for %s: %v", rawURL, err)
		return nil, nil
	}

	return &FetchResult{
		FinalURL: resp.Request.URL.String(),
		Body:     decodeBody(body, resp.Header.Get("Content-Type")),
	}, nil
}

// decodeBody converts a response body to UTF-8. The Content-Type
// charset wins when declared; otherwise already-valid UTF-8 passes
// through and anything else goes through charset detection.
func decodeBody(body []byte, contentType string) []byte {
	if strings.Contains(strings.ToLower(contentType), "charset") {
		r, err := charset.NewReader(bytes.NewReader(body), contentType)
		if err != nil {
			return body
		}
		decoded, err := io.ReadAll(r)
		if err != nil {
			return body
		}
		return decoded
	}

	if utf8.Valid(body) {
		return body
	}

	res, err := chardet.NewTextDetector().DetectBest(body)
	if err != nil {
		return body
	}
	r, err := charset.NewReaderLabel(res.Charset, bytes.NewReader(body))
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}
