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
	"fmt"

	"gorm.io/gorm/clause"
)

// SaveReferrerURLs stores known referrer pages for a domain, ignoring
// duplicates. Returns how many of the given URLs are now on record.
func (s *Store) SaveReferrerURLs(domain string, urls []string) (int, error) {
	saved := 0
	for _, u := range urls {
		row := &ReferrerURL{Domain: domain, URL: u}
		res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return saved, fmt.Errorf("failed to save referrer URL %s: %v", u, res.Error)
		}
		saved++
	}
	return saved, nil
}

// GetReferrerURLs returns every stored referrer URL for a domain.
func (s *Store) GetReferrerURLs(domain string) ([]string, error) {
	var rows []ReferrerURL
	if err := s.db.Where("domain = ?", domain).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get referrer URLs for %s: %v", domain, err)
	}
	urls := make([]string, 0, len(rows))
	for _, r := range rows {
		urls = append(urls, r.URL)
	}
	return urls, nil
}
