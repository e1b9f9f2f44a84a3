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

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/agentberlin/linkgraph"
	"github.com/agentberlin/linkgraph/internal/types"
)

// StartCrawl validates a crawl request, records the job and runs the
// crawl in the background. Referrer URLs previously ingested for the
// domain join the request's seeds. Returns the queued job.
func (a *App) StartCrawl(seedURLs []string, targetDomain string, maxPages int) (*types.CrawlAccepted, error) {
	domain := linkgraph.NormalizeBaseDomain(targetDomain)
	if len(seedURLs) == 0 || domain == "" {
		return nil, fmt.Errorf("%w: seed_urls and target_domain required", ErrInvalidInput)
	}

	seeds := seedURLs
	if referrers, err := a.store.GetReferrerURLs(domain); err != nil {
		log.Printf("failed to load referrer URLs for %s: %v", domain, err)
	} else if len(referrers) > 0 {
		seeds = append(append([]string{}, seedURLs...), referrers...)
	}

	pages := clampMaxPages(maxPages, defaultJobMaxPages)
	job, err := a.store.CreateJob(domain, seeds, pages)
	if err != nil {
		return nil, err
	}

	a.jobs.Add(1)
	go a.runJob(job.ID, seeds, domain, pages)

	return &types.CrawlAccepted{
		JobID:        job.ID,
		Status:       "queued",
		TargetDomain: domain,
	}, nil
}

// runJob executes one background crawl from start to stored result.
// Any failure, including a panic, lands the job in the failed state
// with its reason recorded.
func (a *App) runJob(jobID uint, seeds []string, domain string, maxPages int) {
	defer a.jobs.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("crawl job %d panicked: %v", jobID, r)
			a.failJob(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := a.store.SetJobRunning(jobID); err != nil {
		log.Printf("crawl job %d: %v", jobID, err)
	}

	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	crawler := linkgraph.NewCrawler(a.newCrawlConfig(maxPages), a.robots)
	pages, err := crawler.Run(ctx, seeds, domain)
	if err != nil {
		a.failJob(jobID, err.Error())
		return
	}

	metrics := linkgraph.BuildMetrics(pages, domain)
	if err := a.store.StoreCrawl(jobID, pages, metrics); err != nil {
		a.failJob(jobID, err.Error())
		return
	}

	log.Printf("crawl job %d done: %d pages, %d referring domains",
		jobID, len(pages), metrics.ReferringDomains)
}

func (a *App) failJob(jobID uint, reason string) {
	if err := a.store.SetJobFailed(jobID, reason); err != nil {
		log.Printf("crawl job %d: %v", jobID, err)
	}
}

// AnalyzeNow runs a small synchronous crawl seeded from one URL and
// returns the resulting metrics without persisting anything. The
// domain defaults to the URL's own host.
func (a *App) AnalyzeNow(rawURL, domain string) (*types.OffPageReport, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url required", ErrInvalidInput)
	}
	target := linkgraph.NormalizeBaseDomain(domain)
	if target == "" {
		target = linkgraph.DomainOf(rawURL)
	}
	if target == "" {
		return nil, fmt.Errorf("%w: domain required or provide valid url", ErrInvalidInput)
	}

	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	crawler := linkgraph.NewCrawler(a.newCrawlConfig(offPageMaxPages), a.robots)
	pages, err := crawler.Run(ctx, []string{rawURL}, target)
	if err != nil {
		if err == linkgraph.ErrNoSeeds || err == linkgraph.ErrInvalidTarget {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("off-page analysis failed: %v", err)
	}

	metrics := linkgraph.BuildMetrics(pages, target)
	return &types.OffPageReport{
		DemoData:         false,
		TargetDomain:     metrics.TargetDomain,
		ReferringDomains: metrics.ReferringDomains,
		TotalBacklinks:   metrics.TotalBacklinks,
		FollowCount:      metrics.FollowCount,
		NofollowCount:    metrics.NofollowCount,
		FollowPct:        metrics.FollowPct,
		EstimatedDA:      metrics.EstimatedDA,
		PagesCrawled:     metrics.PagesCrawled,
		Raw:              metrics,
	}, nil
}

// IngestReferrers stores externally known referrer URLs for a domain.
func (a *App) IngestReferrers(domain string, urls []string) (*types.IngestReferrersResponse, error) {
	target := linkgraph.NormalizeBaseDomain(domain)
	if target == "" || len(urls) == 0 {
		return nil, fmt.Errorf("%w: domain and urls required", ErrInvalidInput)
	}

	count, err := a.store.SaveReferrerURLs(target, urls)
	if err != nil {
		return nil, err
	}
	return &types.IngestReferrersResponse{
		OK:        true,
		Domain:    target,
		URLsCount: count,
	}, nil
}

// Report returns the latest stored metrics for a domain, or nil when
// the domain has no completed crawl.
func (a *App) Report(domain string) (*types.DomainReport, error) {
	target := linkgraph.NormalizeBaseDomain(domain)
	if target == "" {
		return nil, fmt.Errorf("%w: domain required", ErrInvalidInput)
	}

	metric, err := a.store.LatestReport(target)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, nil
	}

	report := &types.DomainReport{
		UpdatedAt: time.Unix(metric.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
	if err := json.Unmarshal([]byte(metric.MetricsJSON), &report.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode stored metrics for %s: %v", target, err)
	}
	return report, nil
}

// JobStatus returns the lifecycle state of a job, or nil when the job
// does not exist.
func (a *App) JobStatus(id uint) (*types.JobStatus, error) {
	job, err := a.store.GetJob(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}
	return &types.JobStatus{
		JobID:        job.ID,
		TargetDomain: job.TargetDomain,
		Status:       job.Status,
		Error:        job.Error,
		CreatedAt:    time.Unix(job.CreatedAt, 0).UTC().Format(time.RFC3339),
	}, nil
}
