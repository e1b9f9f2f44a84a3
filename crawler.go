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
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrNoSeeds is returned when a crawl is started without any
	// usable seed URL.
	ErrNoSeeds = errors.New("no valid seed URLs")

	// ErrInvalidTarget is returned when the target domain is empty
	// after normalization.
	ErrInvalidTarget = errors.New("invalid target domain")
)

// DefaultUserAgent identifies the crawler to remote servers.
const DefaultUserAgent = "LinkGraphBot/1.0 (+https://github.com/agentberlin/linkgraph)"

// Config holds the knobs of a single crawl.
type Config struct {
	// MaxPages caps how many pages a crawl may extract.
	MaxPages int
	// MaxConcurrent is the number of simultaneous fetch workers.
	MaxConcurrent int
	// RequestDelay is the politeness delay each worker sleeps before
	// its fetch, inside its concurrency slot.
	RequestDelay time.Duration
	// RequestTimeout bounds each page fetch.
	RequestTimeout time.Duration
	// UserAgent is sent on every request and matched against
	// robots.txt groups.
	UserAgent string
	// RespectRobots disables fetching of robots-disallowed URLs.
	RespectRobots bool
	// DiscoverSitemaps seeds the frontier from /sitemap.xml when set.
	DiscoverSitemaps bool
	// FrontierSize is the discovery queue capacity. URLs found past
	// this bound are dropped with a warning.
	FrontierSize int

	// QuietChecks, QuietDelay and DequeueTimeout shape termination: a
	// crawl ends after QuietChecks consecutive empty-frontier
	// observations spaced QuietDelay apart, once no fetch is in
	// flight. They exist as fields so tests can shrink them.
	QuietChecks    int
	QuietDelay     time.Duration
	DequeueTimeout time.Duration
}

// NewDefaultConfig returns the standard crawl configuration.
func NewDefaultConfig() *Config {
	return &Config{
		MaxPages:         500,
		MaxConcurrent:    5,
		RequestDelay:     1 * time.Second,
		RequestTimeout:   15 * time.Second,
		UserAgent:        DefaultUserAgent,
		RespectRobots:    true,
		DiscoverSitemaps: false,
		FrontierSize:     50000,
		QuietChecks:      3,
		QuietDelay:       500 * time.Millisecond,
		DequeueTimeout:   2 * time.Second,
	}
}

// visitSet tracks canonical URLs already claimed by the crawl. URLs
// are stored as xxhash digests, not strings.
type visitSet struct {
	mu      sync.Mutex
	visited map[uint64]struct{}
}

func newVisitSet() *visitSet {
	return &visitSet{visited: make(map[uint64]struct{})}
}

// visitIfNew atomically claims a URL. It returns true exactly once per
// distinct URL, so two workers can never both own the same page.
func (vs *visitSet) visitIfNew(u string) bool {
	id := xxhash.Sum64String(u)
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if _, ok := vs.visited[id]; ok {
		return false
	}
	vs.visited[id] = struct{}{}
	return true
}

// Crawler walks one site's internal link structure breadth-first from
// a set of seeds, within a page budget and a politeness policy.
type Crawler struct {
	cfg     *Config
	fetcher *Fetcher
	robots  *RobotsCache

	target   string
	frontier chan string
	seen     *visitSet

	mu      sync.Mutex
	results []*Page

	pagesDone int64
	inflight  int64
}

// NewCrawler builds a crawler from cfg. A nil cfg uses defaults; a nil
// robots cache gets a fresh one, so callers can share a cache across
// crawls of the same host.
func NewCrawler(cfg *Config, robots *RobotsCache) *Crawler {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if robots == nil {
		robots = NewRobotsCache()
	}
	return &Crawler{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.UserAgent, cfg.RequestTimeout),
		robots:  robots,
	}
}

// Run crawls from seeds until the page budget is reached, the frontier
// stays quiet, or ctx is cancelled. It returns the pages extracted so
// far in every case; the error is non-nil only for invalid input or
// cancellation.
func (c *Crawler) Run(ctx context.Context, seeds []string, targetDomain string) ([]*Page, error) {
	c.target = NormalizeBaseDomain(targetDomain)
	if c.target == "" {
		return nil, ErrInvalidTarget
	}

	c.frontier = make(chan string, c.cfg.FrontierSize)
	c.seen = newVisitSet()
	c.results = nil
	atomic.StoreInt64(&c.pagesDone, 0)

	seeded := 0
	for _, s := range seeds {
		u, err := Canonicalize(s, "")
		if err != nil {
			log.Printf("skipping invalid seed %q: %v", s, err)
			continue
		}
		if c.seen.visitIfNew(u) {
			c.frontier <- u
			seeded++
		}
	}
	if seeded == 0 {
		return nil, ErrNoSeeds
	}

	if c.cfg.DiscoverSitemaps {
		c.seedFromSitemaps(ctx, seeds)
	}

	pool := newWorkerPool(ctx, c.cfg.MaxConcurrent, c.cfg.MaxConcurrent)
	err := c.coordinate(ctx, pool)
	pool.Close()

	c.mu.Lock()
	pages := c.results
	c.mu.Unlock()
	return pages, err
}

// coordinate is the dispatch loop. It hands frontier URLs to the pool
// and decides when the crawl is over: the page budget is spent, or the
// frontier has stayed empty with no fetch in flight for QuietChecks
// consecutive observations.
func (c *Crawler) coordinate(ctx context.Context, pool *workerPool) error {
	quiet := 0
	for atomic.LoadInt64(&c.pagesDone) < int64(c.cfg.MaxPages) {
		if len(c.frontier) == 0 {
			if atomic.LoadInt64(&c.inflight) > 0 {
				// A worker may still enqueue; this is not quiet.
				if err := sleepCtx(ctx, c.cfg.QuietDelay); err != nil {
					return err
				}
				continue
			}
			quiet++
			if quiet >= c.cfg.QuietChecks {
				return nil
			}
			if err := sleepCtx(ctx, c.cfg.QuietDelay); err != nil {
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-c.frontier:
			quiet = 0
			atomic.AddInt64(&c.inflight, 1)
			if err := pool.Submit(func() {
				defer atomic.AddInt64(&c.inflight, -1)
				c.process(ctx, u)
			}); err != nil {
				atomic.AddInt64(&c.inflight, -1)
				return err
			}
		case <-time.After(c.cfg.DequeueTimeout):
		}
	}
	return nil
}

// process fetches and extracts one page, then feeds newly discovered
// in-scope links back into the frontier.
func (c *Crawler) process(ctx context.Context, rawURL string) {
	// Politeness delay runs inside the concurrency slot so the
	// effective request rate stays MaxConcurrent / RequestDelay.
	if err := sleepCtx(ctx, c.cfg.RequestDelay); err != nil {
		return
	}

	if c.cfg.RespectRobots && !c.robots.Allowed(rawURL, c.cfg.UserAgent) {
		log.Printf("robots.txt disallows %s", rawURL)
		return
	}

	fctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	res, err := c.fetcher.Fetch(fctx, rawURL)
	if err != nil || res == nil {
		return
	}

	finalURL, cerr := Canonicalize(res.FinalURL, "")
	if cerr != nil {
		finalURL = rawURL
	}
	if finalURL != rawURL && !c.seen.visitIfNew(finalURL) {
		// A redirect landed on a page another worker already owns.
		return
	}

	page, err := Extract(res.Body, finalURL, c.target)
	if err != nil {
		log.Printf("extract failed for %s: %v", finalURL, err)
		return
	}

	if atomic.AddInt64(&c.pagesDone, 1) > int64(c.cfg.MaxPages) {
		return
	}

	c.mu.Lock()
	c.results = append(c.results, page)
	c.mu.Unlock()

	for _, l := range page.Links {
		if !SameBaseDomain(l.Href, c.target) {
			continue
		}
		u, err := Canonicalize(l.Href, "")
		if err != nil {
			continue
		}
		if !c.seen.visitIfNew(u) {
			continue
		}
		select {
		case c.frontier <- u:
		default:
			log.Printf("frontier full, dropping %s", u)
		}
	}
}

// seedFromSitemaps tries the conventional sitemap locations of each
// seed's host and enqueues in-scope URLs it finds there.
func (c *Crawler) seedFromSitemaps(ctx context.Context, seeds []string) {
	tried := make(map[string]struct{})
	for _, s := range seeds {
		u, err := Canonicalize(s, "")
		if err != nil {
			continue
		}
		origin := originOf(u)
		if origin == "" {
			continue
		}
		if _, ok := tried[origin]; ok {
			continue
		}
		tried[origin] = struct{}{}

		for _, found := range TryDefaultSitemaps(ctx, c.fetcher.Client, origin) {
			if !SameBaseDomain(found, c.target) {
				continue
			}
			cu, err := Canonicalize(found, "")
			if err != nil || !c.seen.visitIfNew(cu) {
				continue
			}
			select {
			case c.frontier <- cu:
			default:
			}
		}
	}
}

// sleepCtx sleeps for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		// Still honor cancellation on the zero-delay path.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
