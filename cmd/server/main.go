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

// LinkGraph HTTP Server
//
// Self-hosted crawling and link-graph API. No third-party backlink
// services: every metric comes from this server's own crawls.
//
// Usage:
//
//	linkgraph-server [flags]
//
// Flags:
//
//	-host string    Host to bind the server to (default "0.0.0.0")
//	-port int       Port to run the server on (default 8080)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/linkgraph/internal/app"
	"github.com/agentberlin/linkgraph/internal/server"
	"github.com/agentberlin/linkgraph/internal/store"
)

func main() {
	port := flag.Int("port", 8080, "Port to run the HTTP server on")
	host := flag.String("host", "0.0.0.0", "Host to bind the HTTP server to")
	flag.Parse()

	st, err := store.NewStore()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	coreApp := app.NewApp(st)
	coreApp.Startup(context.Background())

	srv := server.NewServer(coreApp)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("LinkGraph Server starting on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let background crawl jobs finish their final writes.
	coreApp.Shutdown()

	log.Println("Server exited gracefully")
}
