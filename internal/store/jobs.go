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

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agentberlin/linkgraph"
)

// CreateJob records a new crawl job in the pending state.
func (s *Store) CreateJob(targetDomain string, seedURLs []string, maxPages int) (*Job, error) {
	seeds, err := json.Marshal(seedURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seed URLs: %v", err)
	}

	job := &Job{
		TargetDomain: targetDomain,
		SeedURLs:     string(seeds),
		MaxPages:     maxPages,
		Status:       JobStatePending,
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create job: %v", err)
	}
	return job, nil
}

// GetJob retrieves a job by ID. Returns (nil, nil) when no such job
// exists.
func (s *Store) GetJob(id uint) (*Job, error) {
	var job Job
	if err := s.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %d: %v", id, err)
	}
	return &job, nil
}

// SeedURLList deserializes the job's stored seed URLs.
func (j *Job) SeedURLList() []string {
	var seeds []string
	if err := json.Unmarshal([]byte(j.SeedURLs), &seeds); err != nil {
		return nil
	}
	return seeds
}

// SetJobRunning transitions a job to the running state.
func (s *Store) SetJobRunning(id uint) error {
	if err := s.db.Model(&Job{}).Where("id = ?", id).Update("status", JobStateRunning).Error; err != nil {
		return fmt.Errorf("failed to mark job %d running: %v", id, err)
	}
	return nil
}

// SetJobFailed transitions a job to the failed state and records the
// failure reason.
func (s *Store) SetJobFailed(id uint, reason string) error {
	updates := map[string]interface{}{
		"status": JobStateFailed,
		"error":  reason,
	}
	if err := s.db.Model(&Job{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark job %d failed: %v", id, err)
	}
	return nil
}

// StoreCrawl persists a finished crawl in a single transaction: every
// extracted page, the computed metrics, and the job's transition to
// completed. A crash mid-write leaves the job visibly unfinished
// rather than half-reported.
func (s *Store) StoreCrawl(jobID uint, pages []*linkgraph.Page, metrics *linkgraph.Metrics) error {
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %v", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range pages {
			links, err := json.Marshal(p.Links)
			if err != nil {
				return fmt.Errorf("failed to marshal links for %s: %v", p.URL, err)
			}
			row := &Page{
				JobID:           jobID,
				URL:             p.URL,
				Domain:          p.Domain,
				Title:           p.Title,
				MetaDescription: p.MetaDescription,
				Canonical:       p.Canonical,
				Links:           string(links),
				InternalCount:   p.InternalCount,
				ExternalCount:   p.ExternalCount,
				FollowCount:     p.FollowCount,
				NofollowCount:   p.NofollowCount,
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to store page %s: %v", p.URL, err)
			}
		}

		metric := &Metric{
			JobID:            jobID,
			TargetDomain:     metrics.TargetDomain,
			ReferringDomains: metrics.ReferringDomains,
			TotalBacklinks:   metrics.TotalBacklinks,
			FollowPct:        metrics.FollowPct,
			EstimatedDA:      metrics.EstimatedDA,
			PagesCrawled:     metrics.PagesCrawled,
			MetricsJSON:      string(metricsJSON),
		}
		if err := tx.Create(metric).Error; err != nil {
			return fmt.Errorf("failed to store metrics: %v", err)
		}

		if err := tx.Model(&Job{}).Where("id = ?", jobID).Update("status", JobStateCompleted).Error; err != nil {
			return fmt.Errorf("failed to mark job %d completed: %v", jobID, err)
		}
		return nil
	})
}

// GetJobPages returns the pages stored for a job.
func (s *Store) GetJobPages(jobID uint) ([]Page, error) {
	var pages []Page
	if err := s.db.Where("job_id = ?", jobID).Order("id ASC").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to get pages for job %d: %v", jobID, err)
	}
	return pages, nil
}

// LatestReport returns the metrics of the most recently completed job
// for a domain, or (nil, nil) when the domain has never completed a
// crawl.
func (s *Store) LatestReport(targetDomain string) (*Metric, error) {
	var metric Metric
	err := s.db.
		Joins("JOIN jobs ON jobs.id = metrics.job_id").
		Where("metrics.target_domain = ? AND jobs.status = ?", targetDomain, JobStateCompleted).
		Order("metrics.updated_at DESC, metrics.id DESC").
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report for %s: %v", targetDomain, err)
	}
	return &metric, nil
}
