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

package store

// Job state constants
const (
	JobStatePending   = "pending"
	JobStateRunning   = "running"
	JobStateCompleted = "completed"
	JobStateFailed    = "failed"
)

// Job represents one crawl request and its lifecycle state
type Job struct {
	ID           uint   `gorm:"primaryKey"`
	TargetDomain string `gorm:"not null;index"`
	SeedURLs     string `gorm:"type:text;not null"` // JSON array
	MaxPages     int    `gorm:"not null;default:500"`
	Status       string `gorm:"not null;default:'pending';index"`
	Error        string `gorm:"type:text"`
	CreatedAt    int64  `gorm:"autoCreateTime"`
	UpdatedAt    int64  `gorm:"autoUpdateTime"`
}

// Page represents a single page extracted during a crawl
type Page struct {
	ID              uint    `gorm:"primaryKey"`
	JobID           uint    `gorm:"not null;index"`
	URL             string  `gorm:"not null"`
	Domain          string  `gorm:"not null;index"`
	Title           string  `gorm:"type:text"`
	MetaDescription string  `gorm:"type:text"`
	Canonical       string  `gorm:"type:text"`
	Links           string  `gorm:"type:text"` // JSON array of extracted links
	InternalCount   int     `gorm:"not null;default:0"`
	ExternalCount   int     `gorm:"not null;default:0"`
	FollowCount     int     `gorm:"not null;default:0"`
	NofollowCount   int     `gorm:"not null;default:0"`
	CreatedAt       int64   `gorm:"autoCreateTime"`
}

// Metric represents the link-graph metrics computed for one completed
// job. One row per job; the full metrics payload is kept as JSON so
// the report endpoint can serve it without recomputation.
type Metric struct {
	ID               uint    `gorm:"primaryKey"`
	JobID            uint    `gorm:"uniqueIndex;not null"`
	TargetDomain     string  `gorm:"not null;index"`
	ReferringDomains int     `gorm:"not null;default:0"`
	TotalBacklinks   int     `gorm:"not null;default:0"`
	FollowPct        float64 `gorm:"not null;default:0"`
	EstimatedDA      float64 `gorm:"not null;default:0"`
	PagesCrawled     int     `gorm:"not null;default:0"`
	MetricsJSON      string  `gorm:"type:text"`
	CreatedAt        int64   `gorm:"autoCreateTime"`
	UpdatedAt        int64   `gorm:"autoUpdateTime"`
}

// ReferrerURL is an externally supplied page known to link to a
// domain. Stored URLs are merged into the seed set of later crawls
// for that domain.
type ReferrerURL struct {
	ID        uint   `gorm:"primaryKey"`
	Domain    string `gorm:"not null;index"`
	URL       string `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}
