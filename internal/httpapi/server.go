// Package httpapi provides the HTTP surface of ensnormd: one endpoint per
// ensnorm view (normalize/beautify/tokenize/transformations/cure), plus
// /status and /metrics for operational visibility.
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ensnorm"
	"ensnorm/internal/config"
	"ensnorm/internal/dnsbridge"
	"ensnorm/internal/logger"
	"ensnorm/internal/metrics"
	"ensnorm/internal/resultcache"
)

// Server is the ensnormd HTTP API server.
type Server struct {
	cfg       *config.Config
	startTime time.Time
	spec      *ensnorm.Spec
	cache     *resultcache.Cache // nil = caching disabled
	token     string             // bearer token for auth; empty = no auth
	metrics   *metrics.Metrics   // nil = no metrics
	log       *logger.Logger
}

// New creates an httpapi.Server backed by spec. cache may be nil to disable
// result caching.
func New(cfg *config.Config, spec *ensnorm.Spec, cache *resultcache.Cache, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:       cfg,
		startTime: time.Now(),
		spec:      spec,
		cache:     cache,
		token:     cfg.ManagementTok,
		metrics:   m,
		log:       logger.New("HTTPAPI", cfg.LogLevel),
	}
	if s.token != "" {
		s.log.Info("startup", "bearer token authentication enabled")
	}
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/normalize", s.handleOp(ensnorm.ProcessOptions{Normalize: true}))
	mux.HandleFunc("/beautify", s.handleOp(ensnorm.ProcessOptions{Beautify: true}))
	mux.HandleFunc("/tokenize", s.handleOp(ensnorm.ProcessOptions{Tokenize: true}))
	mux.HandleFunc("/transformations", s.handleOp(ensnorm.ProcessOptions{Transformations: true}))
	mux.HandleFunc("/cure", s.handleCure)
	if s.cfg.DNSBridgeEnabled {
		mux.HandleFunc("/ascii", s.handleASCII)
	}
	return s.authMiddleware(mux)
}

// authMiddleware checks for a valid Bearer token if one is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) ||
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(auth[len(prefix):])), []byte(s.token)) != 1 {
			s.log.Warnf("auth_reject", "unauthorized access attempt from %s to %s", r.RemoteAddr, r.URL.Path)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) readName(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return "", false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 16*1024)
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, `invalid request: need {"name":"..."}`, http.StatusBadRequest)
		return "", false
	}
	return req.Name, true
}

// handleOp returns a handler that runs a single ensnorm.Process view, using
// the result cache when one is configured.
func (s *Server) handleOp(opts ensnorm.ProcessOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := s.readName(w, r)
		if !ok {
			return
		}

		start := time.Now()
		result, cached := s.lookup(name, opts)
		if s.metrics != nil {
			s.metrics.RecordProcessLatency(time.Since(start))
			s.metrics.RequestsTotal.Add(1)
			if cached {
				s.metrics.ResultCacheHits.Add(1)
			} else {
				s.metrics.ResultCacheMisses.Add(1)
			}
		}

		if result.Error != nil {
			s.writeError(w, result.Error)
			return
		}
		if s.metrics != nil {
			s.metrics.RequestsOK.Add(1)
		}
		s.writeJSON(w, http.StatusOK, resultResponse(name, result))
	}
}

func (s *Server) handleCure(w http.ResponseWriter, r *http.Request) {
	name, ok := s.readName(w, r)
	if !ok {
		return
	}

	start := time.Now()
	cured, cures, err := s.spec.Cure(name)
	if s.metrics != nil {
		s.metrics.RecordProcessLatency(time.Since(start))
		s.metrics.RequestsTotal.Add(1)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		if len(cures) > 0 {
			s.metrics.RequestsCured.Add(1)
		} else {
			s.metrics.RequestsOK.Add(1)
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"cured": cured,
		"cures": cures,
	})
}

// handleASCII beautifies name and Punycode-encodes the result via
// internal/dnsbridge, for callers that need a plain-ASCII DNS label.
func (s *Server) handleASCII(w http.ResponseWriter, r *http.Request) {
	name, ok := s.readName(w, r)
	if !ok {
		return
	}

	beautified, err := s.spec.Beautify(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ascii, err := dnsbridge.ToASCII(beautified)
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"name":  name,
			"error": err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":       name,
		"beautified": beautified,
		"ascii":      ascii,
	})
}

// lookup runs Process for (name, opts), consulting s.cache when configured.
func (s *Server) lookup(name string, opts ensnorm.ProcessOptions) (result ensnorm.Result, cached bool) {
	if s.cache == nil {
		return s.spec.Process(name, opts), false
	}
	if result, ok := s.cache.Get(name, opts); ok {
		return result, true
	}
	result = s.spec.Process(name, opts)
	s.cache.Put(name, opts, result)
	return result, false
}

func resultResponse(name string, result ensnorm.Result) map[string]any {
	resp := map[string]any{"name": name}
	if result.Normalized != "" {
		resp["normalized"] = result.Normalized
	}
	if result.Beautified != "" {
		resp["beautified"] = result.Beautified
	}
	if result.Tokens != nil {
		resp["tokens"] = result.Tokens
	}
	if result.Transformations != nil {
		resp["transformations"] = result.Transformations
	}
	return resp
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"error": err.Error()}
	switch e := err.(type) {
	case *ensnorm.DisallowedError:
		body["kind"] = string(e.Kind)
		if s.metrics != nil {
			s.metrics.ErrorsDisallowed.Add(1)
		}
	case *ensnorm.CurableError:
		body["kind"] = string(e.Kind)
		body["index"] = e.Index
		body["suggested"] = e.Suggested
		if s.metrics != nil {
			s.metrics.ErrorsCurable.Add(1)
		}
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, body)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	type response struct {
		Status         string `json:"status"`
		Uptime         string `json:"uptime"`
		UnicodeVersion string `json:"unicodeVersion"`
		ResultCache    bool   `json:"resultCacheEnabled"`
	}
	s.writeJSON(w, http.StatusOK, response{
		Status:         "running",
		Uptime:         time.Since(s.startTime).Round(time.Second).String(),
		UnicodeVersion: s.spec.UnicodeVersion,
		ResultCache:    s.cache != nil,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	if s.metrics == nil {
		http.Error(w, "metrics not enabled", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("encode_response", "JSON encode error: %v", err)
	}
}

// ListenAndServe starts the ensnormd HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.HTTPPort)
	s.log.Infof("startup", "listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
