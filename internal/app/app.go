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

// Package app implements the application logic behind the HTTP API:
// job orchestration, synchronous analysis and report retrieval.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/agentberlin/linkgraph"
	"github.com/agentberlin/linkgraph/internal/store"
)

// ErrInvalidInput marks request validation failures; the HTTP layer
// maps it to a 400 response.
var ErrInvalidInput = errors.New("invalid input")

const (
	// defaultJobMaxPages is the page budget of a background crawl
	// when the request does not specify one.
	defaultJobMaxPages = 500
	// maxJobMaxPages is the hard ceiling a request may ask for.
	maxJobMaxPages = 5000
	// offPageMaxPages bounds the synchronous off-page analysis crawl
	// so the request returns in reasonable time.
	offPageMaxPages = 200
)

// App represents the core application logic
type App struct {
	ctx    context.Context
	store  *store.Store
	robots *linkgraph.RobotsCache

	// Config is the template crawl configuration; each job gets its
	// own copy. Tests shrink the delays here.
	Config *linkgraph.Config

	// jobs tracks background crawls so Shutdown can wait for them.
	jobs sync.WaitGroup
}

// NewApp creates a new App instance with dependencies injected
func NewApp(st *store.Store) *App {
	return &App{
		store:  st,
		robots: linkgraph.NewRobotsCache(),
		Config: linkgraph.NewDefaultConfig(),
	}
}

// Startup initializes the app with a context
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
}

// Shutdown waits for background crawl jobs to finish writing.
func (a *App) Shutdown() {
	a.jobs.Wait()
}

// Store returns the underlying store.
func (a *App) Store() *store.Store {
	return a.store
}

// clampMaxPages normalizes a requested page budget into [1, ceiling],
// substituting the default for zero or negative values.
func clampMaxPages(requested, def int) int {
	if requested <= 0 {
		return def
	}
	if requested > maxJobMaxPages {
		return maxJobMaxPages
	}
	return requested
}

// newCrawlConfig copies the template config with a job-specific page
// budget.
func (a *App) newCrawlConfig(maxPages int) *linkgraph.Config {
	cfg := *a.Config
	cfg.MaxPages = maxPages
	return &cfg
}
