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

// Package server exposes the crawling and link-graph API over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/agentberlin/linkgraph/internal/app"
	"github.com/agentberlin/linkgraph/internal/types"
)

// Server represents the HTTP server
type Server struct {
	app *app.App
	mux *http.ServeMux
}

// NewServer creates a new HTTP server
func NewServer(app *app.App) *Server {
	s := &Server{
		app: app,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// CORS middleware
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Logging middleware
	log.Printf("%s %s", r.Method, r.URL.Path)

	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/crawl", s.handleCrawl)
	s.mux.HandleFunc("/report/", s.handleReport)
	s.mux.HandleFunc("/off-page-analyze", s.handleOffPageAnalyze)
	s.mux.HandleFunc("/ingest-referrers", s.handleIngestReferrers)
	s.mux.HandleFunc("/jobs/", s.handleJob)
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps app errors to HTTP status codes: validation
// failures become 400, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, app.ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

// handleCrawl handles POST /crawl: enqueue a background crawl job.
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	accepted, err := s.app.StartCrawl(req.SeedURLs, req.TargetDomain, req.MaxPages)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted)
}

// handleReport handles GET /report/{domain}: the latest stored
// metrics for a domain.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	domain := strings.TrimPrefix(r.URL.Path, "/report/")
	if domain == "" || strings.Contains(domain, "/") {
		http.Error(w, "Domain required", http.StatusBadRequest)
		return
	}

	report, err := s.app.Report(domain)
	if err != nil {
		writeError(w, err)
		return
	}
	if report == nil {
		http.Error(w, fmt.Sprintf("No completed crawl for domain: %s", domain), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleOffPageAnalyze handles POST /off-page-analyze: a synchronous
// bounded crawl that returns metrics directly.
func (s *Server) handleOffPageAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.OffPageAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	report, err := s.app.AnalyzeNow(req.URL, req.Domain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleIngestReferrers handles POST /ingest-referrers: store known
// referrer URLs for a domain.
func (s *Server) handleIngestReferrers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.IngestReferrersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	resp, err := s.app.IngestReferrers(req.Domain, req.URLs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleJob handles GET /jobs/{id}: the lifecycle state of a job.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/jobs/")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	status, err := s.app.JobStatus(uint(id))
	if err != nil {
		writeError(w, err)
		return
	}
	if status == nil {
		http.Error(w, fmt.Sprintf("No such job: %d", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
