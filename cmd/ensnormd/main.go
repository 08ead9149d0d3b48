// Command ensnormd is the ENS name normalization HTTP service.
//
// It loads an ENSIP-15 spec.json (optionally through a bbolt-backed binary
// cache), serves /normalize, /beautify, /tokenize, /transformations, and
// /cure over HTTP, and exposes /status and /metrics for operators.
//
// Usage:
//
//	./ensnormd
//
//	# Custom port, bearer-token auth
//	ENSNORMD_HTTP_PORT=9090 ENSNORMD_MANAGEMENT_TOKEN=secret ./ensnormd
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/unicode/norm"

	"ensnorm"
	"ensnorm/internal/config"
	"ensnorm/internal/httpapi"
	"ensnorm/internal/metrics"
	"ensnorm/internal/resultcache"
	"ensnorm/internal/speccache"
)

func main() {
	cfg := config.Load()

	spec, err := speccache.Load(cfg.SpecFile, cfg.SpecCacheDB)
	if err != nil {
		log.Fatalf("[ENSNORMD] failed to load spec %s: %v", cfg.SpecFile, err)
	}
	if spec.UnicodeVersion != norm.Version {
		log.Printf("[ENSNORMD] Warning: spec declares Unicode %s but the NFC/NFD tables are Unicode %s", spec.UnicodeVersion, norm.Version)
	}

	var cache *resultcache.Cache
	if cfg.ResultCache > 0 {
		cache = resultcache.New(cfg.ResultCache)
	}

	m := metrics.New()

	printBanner(cfg, spec)

	srv := httpapi.New(cfg, spec, cache, m)

	addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.HTTPPort)
	log.Printf("[ENSNORMD] Listening on %s", addr)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Printf("[ENSNORMD] Shutting down…")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Printf("[ENSNORMD] Shutdown error: %v", err)
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[ENSNORMD] Fatal: %v", err)
	}
}

func printBanner(cfg *config.Config, spec *ensnorm.Spec) {
	fmt.Printf(`
╔══════════════════════════════════════════════════════╗
║              ensnormd  (ENSIP-15)                    ║
╚══════════════════════════════════════════════════════╝
  HTTP port       : %d
  Bind address    : %s
  Spec file       : %s (Unicode %s)
  Spec cache      : %s
  Result cache    : %d entries
  DNS bridge      : %v

  Check status:
    curl http://%s:%d/status
`, cfg.HTTPPort, cfg.BindAddress, cfg.SpecFile, spec.UnicodeVersion, cfg.SpecCacheDB, cfg.ResultCache, cfg.DNSBridgeEnabled,
		cfg.BindAddress, cfg.HTTPPort)
}
