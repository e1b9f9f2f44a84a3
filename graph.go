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

import "math"

// Backlink is one edge pointing at the target domain from an external
// source page.
type Backlink struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Anchor   string `json:"anchor"`
	Nofollow bool   `json:"nofollow"`
}

// Metrics summarizes the link graph of a crawl from the target
// domain's point of view.
type Metrics struct {
	TargetDomain     string     `json:"target_domain"`
	ReferringDomains int        `json:"referring_domains"`
	TotalBacklinks   int        `json:"total_backlinks"`
	FollowCount      int        `json:"follow_count"`
	NofollowCount    int        `json:"nofollow_count"`
	FollowPct        float64    `json:"follow_pct"`
	EstimatedDA      float64    `json:"estimated_da"`
	PagesCrawled     int        `json:"pages_crawled"`
	Backlinks        []Backlink `json:"backlinks"`
}

// BuildMetrics classifies every extracted link against targetDomain
// and derives the aggregate metrics. A backlink is a link whose target
// is the target domain and whose source page lives on a different
// domain; links between the target domain's own pages never count.
func BuildMetrics(pages []*Page, targetDomain string) *Metrics {
	target := NormalizeBaseDomain(targetDomain)

	m := &Metrics{
		TargetDomain: target,
		PagesCrawled: len(pages),
		Backlinks:    []Backlink{},
	}

	sources := make(map[string]struct{})
	for _, p := range pages {
		srcDomain := DomainOf(p.URL)
		for _, l := range p.Links {
			if DomainOf(l.Href) != target {
				continue
			}
			if srcDomain == target {
				continue
			}
			m.Backlinks = append(m.Backlinks, Backlink{
				Source:   p.URL,
				Target:   l.Href,
				Anchor:   l.Anchor,
				Nofollow: l.IsNofollow,
			})
			sources[srcDomain] = struct{}{}
			if l.IsNofollow {
				m.NofollowCount++
			} else {
				m.FollowCount++
			}
		}
	}

	m.ReferringDomains = len(sources)
	m.TotalBacklinks = len(m.Backlinks)
	if m.TotalBacklinks > 0 {
		m.FollowPct = round2(100 * float64(m.FollowCount) / float64(m.TotalBacklinks))
	}
	m.EstimatedDA = round1(estimateDA(m.ReferringDomains, m.TotalBacklinks))

	return m
}

// estimateDA is a logarithmic authority estimate on a 0-100 scale.
// It rewards breadth (distinct referring domains) over raw volume.
func estimateDA(referringDomains, totalBacklinks int) float64 {
	da := math.Log10(1+float64(referringDomains))*10 +
		math.Log10(1+float64(totalBacklinks))*5
	return math.Min(100, math.Max(0, da))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
