// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package api serves lookups and exports over HTTP
package api

import (
	"zonemap/pkg/config"
	"zonemap/pkg/inventory"
	"zonemap/pkg/log"
	"zonemap/pkg/lookup"
	"zonemap/pkg/table"
	"zonemap/pkg/util"

	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Lookuper resolves a single domain
type Lookuper interface {
	Lookup(ctx context.Context, domain string, accounts []config.Account) (lookup.Result, bool, error)
}

// Exporter rebuilds the table
type Exporter interface {
	Export(ctx context.Context, accounts []config.Account) (*inventory.Summary, error)
}

// AccountSource returns the accounts currently configured
type AccountSource interface {
	Accounts() []config.Account
}

// Options configure the server
type Options struct {
	Listen    []string // listen patterns, see util.ResolveListenAddresses
	Port      string
	TLSCert   string
	TLSKey    string
	Clients   map[string]string // client_id -> token; empty disables authentication
	TablePath string
}

// Server answers lookup, table and update requests
type Server struct {
	opts     Options
	lookup   Lookuper
	exporter Exporter
	accounts AccountSource
	logger   *log.ScopedLogger

	exportMutex sync.Mutex

	failedAttempts map[string]*FailedAttemptTracker // by remote IP
	attemptsMutex  sync.RWMutex
}

// FailedAttemptTracker tracks failed authentication attempts from an IP
type FailedAttemptTracker struct {
	Count       int
	FirstFailed time.Time
	LastFailed  time.Time
}

// ParseClients turns "client_id=token" pairs into a client map. Tokens may
// be file:// or env:// references.
func ParseClients(pairs []string) (map[string]string, error) {
	clients := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, ref, ok := cutPair(pair)
		if !ok {
			return nil, fmt.Errorf("invalid API client %q, expected client_id=token", pair)
		}
		token := util.ReadSecretValue(ref)
		if token == "" {
			return nil, fmt.Errorf("client '%s' has empty token", id)
		}
		if strings.HasPrefix(token, "file://") || strings.HasPrefix(token, "env://") {
			return nil, fmt.Errorf("client '%s' token reference %s could not be resolved", id, token)
		}
		clients[id] = token
	}
	return clients, nil
}

// NewServer creates a server; call Handler or Run to serve requests
func NewServer(opts Options, lookuper Lookuper, exporter Exporter, accounts AccountSource) *Server {
	s := &Server{
		opts:           opts,
		lookup:         lookuper,
		exporter:       exporter,
		accounts:       accounts,
		logger:         log.NewScopedLogger("[api]", ""),
		failedAttempts: make(map[string]*FailedAttemptTracker),
	}
	for id, token := range opts.Clients {
		s.logger.Debug("Registered client: %s (token: %s)", id, util.MaskSensitiveValue(token))
	}
	return s
}

// Generate a short connection ID (8 characters)
func generateConnectionID() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

type contextKey string

const connectionIDKey contextKey = "connectionID"

// connectionIDMiddleware adds a unique connection ID to each request
func connectionIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), connectionIDKey, generateConnectionID())
		next(w, r.WithContext(ctx))
	}
}

// getConnectionID extracts the connection ID from request context
func getConnectionID(r *http.Request) string {
	if id, ok := r.Context().Value(connectionIDKey).(string); ok {
		return id
	}
	return "unknown"
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /api/lookup/{domain}", connectionIDMiddleware(s.requireAuth(s.handleLookup)))
	mux.HandleFunc("GET /api/table", connectionIDMiddleware(s.requireAuth(s.handleTable)))
	mux.HandleFunc("POST /api/update", connectionIDMiddleware(s.requireAuth(s.handleUpdate)))
	return mux
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connID := getConnectionID(r)
		s.logger.Verbose("[%s] %s %s from %s", connID, r.Method, r.URL.Path, r.RemoteAddr)

		if len(s.opts.Clients) > 0 {
			clientID, ok := s.authenticateClient(r)
			if !ok {
				s.logger.Warn("[%s] Unauthorized request from %s", connID, r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			s.logger.Debug("[%s] Authenticated client: %s", connID, clientID)
		}
		next(w, r)
	}
}

type lookupResponse struct {
	Domain  string `json:"domain"`
	IP      string `json:"ip"`
	Account string `json:"account"`
	Source  string `json:"source"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	result, found, err := s.lookup.Lookup(r.Context(), domain, s.accounts.Accounts())
	switch {
	case errors.Is(err, lookup.ErrInvalidDomain):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case !found:
		writeError(w, http.StatusNotFound, fmt.Sprintf("IP for %s not found in any account", domain))
	default:
		writeJSON(w, http.StatusOK, lookupResponse{
			Domain:  result.Domain,
			IP:      result.IP,
			Account: result.Account,
			Source:  string(result.Source),
		})
	}
}

type rowResponse struct {
	Domain  string `json:"domain"`
	IP      string `json:"ip"`
	Account string `json:"account"`
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	rows, err := table.Read(s.opts.TablePath)
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, "table has not been exported yet")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	account := r.URL.Query().Get("account")
	resp := make([]rowResponse, 0, len(rows))
	for _, row := range rows {
		if account != "" && row.Account != account {
			continue
		}
		resp = append(resp, rowResponse{Domain: row.Domain, IP: row.IP, Account: row.Account})
	}
	writeJSON(w, http.StatusOK, resp)
}

type accountResponse struct {
	Account string `json:"account"`
	Status  string `json:"status"`
	Rows    int    `json:"rows"`
	Error   string `json:"error,omitempty"`
}

type updateResponse struct {
	Rows     int               `json:"rows"`
	Accounts []accountResponse `json:"accounts"`
	Seconds  float64           `json:"duration_seconds"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.exportMutex.TryLock() {
		writeError(w, http.StatusConflict, "an update is already running")
		return
	}
	defer s.exportMutex.Unlock()

	summary, err := s.exporter.Export(r.Context(), s.accounts.Accounts())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := updateResponse{Rows: len(summary.Rows), Seconds: summary.Duration.Seconds()}
	for _, a := range summary.Accounts {
		ar := accountResponse{Account: a.Account, Status: a.Status.String(), Rows: len(a.Rows)}
		if err := a.Err(); err != nil {
			ar.Error = err.Error()
		}
		resp.Accounts = append(resp.Accounts, ar)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Run serves on every resolved listen address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	if (s.opts.TLSCert == "") != (s.opts.TLSKey == "") {
		return fmt.Errorf("TLS configuration requires both cert and key")
	}
	if err := util.ValidateListenPatterns(s.opts.Listen); err != nil {
		return fmt.Errorf("invalid listen patterns: %w", err)
	}

	port := s.opts.Port
	if port == "" {
		port = "8080"
	}
	addresses, err := util.ResolveListenAddresses(s.opts.Listen, port)
	if err != nil {
		s.logger.Warn("Interface resolution warning: %v", err)
	}

	if len(s.opts.Clients) == 0 {
		s.logger.Warn("No API clients configured - requests are not authenticated")
	}
	if s.opts.TLSCert == "" {
		s.logger.Warn("WARNING: Running HTTP servers without TLS - use only on trusted networks!")
	}

	handler := s.Handler()
	servers := make([]*http.Server, 0, len(addresses))
	errCh := make(chan error, len(addresses))
	for _, addr := range addresses {
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}
		servers = append(servers, httpServer)

		go func() {
			if s.opts.TLSCert != "" {
				s.logger.Info("Starting HTTPS server on %s", addr)
				errCh <- httpServer.ListenAndServeTLS(s.opts.TLSCert, s.opts.TLSKey)
				return
			}
			s.logger.Info("Starting HTTP server on %s", addr)
			errCh <- httpServer.ListenAndServe()
		}()
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, httpServer := range servers {
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("Shutdown of %s: %v", httpServer.Addr, err)
			}
		}
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				continue
			}
			shutdown()
			return err
		case <-ticker.C:
			s.cleanupFailedAttempts()
		case <-ctx.Done():
			s.logger.Info("Shutting down")
			shutdown()
			return nil
		}
	}
}
