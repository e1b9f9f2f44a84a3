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

// Package types defines the JSON payloads of the HTTP API.
package types

import "github.com/agentberlin/linkgraph"

// CrawlRequest starts a background crawl job.
type CrawlRequest struct {
	SeedURLs     []string `json:"seed_urls"`
	TargetDomain string   `json:"target_domain"`
	MaxPages     int      `json:"max_pages,omitempty"`
}

// CrawlAccepted acknowledges a queued crawl job.
type CrawlAccepted struct {
	JobID        uint   `json:"job_id"`
	Status       string `json:"status"`
	TargetDomain string `json:"target_domain"`
}

// JobStatus reports the lifecycle state of a crawl job.
type JobStatus struct {
	JobID        uint   `json:"job_id"`
	TargetDomain string `json:"target_domain"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// DomainReport is the latest stored metrics for a domain.
type DomainReport struct {
	linkgraph.Metrics
	UpdatedAt string `json:"updated_at"`
}

// OffPageAnalyzeRequest runs a small synchronous crawl for one URL.
type OffPageAnalyzeRequest struct {
	URL    string `json:"url"`
	Domain string `json:"domain,omitempty"`
}

// OffPageReport is the synchronous analysis result. DemoData is
// always false: every number comes from a real crawl.
type OffPageReport struct {
	DemoData         bool               `json:"demoData"`
	TargetDomain     string             `json:"target_domain"`
	ReferringDomains int                `json:"referring_domains"`
	TotalBacklinks   int                `json:"total_backlinks"`
	FollowCount      int                `json:"follow_count"`
	NofollowCount    int                `json:"nofollow_count"`
	FollowPct        float64            `json:"follow_pct"`
	EstimatedDA      float64            `json:"estimated_da"`
	PagesCrawled     int                `json:"pages_crawled"`
	Raw              *linkgraph.Metrics `json:"raw"`
}

// IngestReferrersRequest registers known referrer URLs for a domain.
type IngestReferrersRequest struct {
	Domain string   `json:"domain"`
	URLs   []string `json:"urls"`
}

// IngestReferrersResponse acknowledges stored referrer URLs.
type IngestReferrersResponse struct {
	OK        bool   `json:"ok"`
	Domain    string `json:"domain"`
	URLsCount int    `json:"urls_count"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
}
